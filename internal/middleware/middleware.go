package middleware

import (
	appcontext "github.com/Vathanak-H/ScholarAward/internal/app_context"
	ratelimiter "github.com/Vathanak-H/ScholarAward/internal/rate_limiter"
)

type Middleware struct {
	rateLimiter *ratelimiter.FixedWindowRateLimiter
	app         *appcontext.Application
}

func NewMiddleware(app *appcontext.Application,
	rateLimiter *ratelimiter.FixedWindowRateLimiter,
) *Middleware {
	return &Middleware{app: app, rateLimiter: rateLimiter}
}
