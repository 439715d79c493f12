package otp

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/shlapabank/dashboard-go/internal"
	"github.com/shlapabank/dashboard-go/internal/clock"
	"github.com/shlapabank/dashboard-go/pkg/backend"
)

type PreviewSource interface {
	OtpPreview(ctx context.Context) (*backend.OtpPreview, error)
}

type previewIssuer struct {
	source PreviewSource
	clock  clock.Clock
}

// NewPreviewIssuer issues challenges through the backend preview endpoint.
func NewPreviewIssuer(source PreviewSource, c clock.Clock) ChallengeIssuer {
	return &previewIssuer{source: source, clock: c}
}

func (p *previewIssuer) IssueChallenge(ctx context.Context) (*Challenge, error) {
	preview, err := p.source.OtpPreview(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to request otp challenge")
	}

	ttl := time.Duration(preview.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = internal.DefaultChallengeTTL
	}

	var buf CodeBuffer
	buf.Fill(preview.Code)

	now := p.clock.Now()
	return &Challenge{
		Code:      buf.Code(),
		Message:   preview.Message,
		TTL:       ttl,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}, nil
}
