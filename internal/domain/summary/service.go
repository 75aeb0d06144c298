package summary

import "context"

// Service is the boundary of the summary subsystem. Callers are identified by
// the JWT claims carried in ctx; every read is redacted per the caller's role.
type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (SummaryResponse, error)
	GenerateAll(ctx context.Context, req GenerateAllRequest) (GenerateAllResponse, error)
	List(ctx context.Context, req ListRequest) ([]SummaryResponse, error)
	Get(ctx context.Context, id string) (SummaryResponse, error)
	SignByStaff(ctx context.Context, id string, req SignRequest) (SummaryResponse, error)
	Decide(ctx context.Context, id string, req DecideRequest) (SummaryResponse, error)
	BulkApprove(ctx context.Context, req BulkApproveRequest) (BulkApproveResponse, error)
}
