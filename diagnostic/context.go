package diagnostic

import (
	"context"

	"github.com/logrusorgru/aurora"
)

type colorKey struct{}

// WithColor attaches an aurora color formatter to ctx, so deeply nested
// calls that render a Diagnostic don't need it threaded through every
// signature.
func WithColor(ctx context.Context, color aurora.Aurora) context.Context {
	return context.WithValue(ctx, colorKey{}, color)
}

// Color returns the aurora formatter attached to ctx, or a colorless one.
func Color(ctx context.Context) aurora.Aurora {
	color, ok := ctx.Value(colorKey{}).(aurora.Aurora)
	if !ok {
		return aurora.NewAurora(false)
	}
	return color
}
