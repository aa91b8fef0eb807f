package contracts

import "context"

type AuthClient interface {
	AccessToken(ctx context.Context) (string, error)
	Invalidate()
}
