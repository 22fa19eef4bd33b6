package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	sessionUseCase "github.com/allisson/licensegate/internal/session/usecase"
)

// RunCheckSession acquires (or reuses) a merchant portal session and reports
// its expiry. Tokens are not printed, only their lengths, so the command can
// run in shared terminals.
//
// Requirements: STEADFAST_BASE_URL, STEADFAST_EMAIL and STEADFAST_PASSWORD
// must be configured.
func RunCheckSession(
	ctx context.Context,
	useCase sessionUseCase.SessionUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	credential, err := useCase.GetSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire portal session: %w", err)
	}

	if format == "json" {
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		_ = encoder.Encode(map[string]any{
			"session_token_length": len(credential.SessionToken),
			"xsrf_token_length":    len(credential.XSRFToken),
			"expires_at":           credential.ExpiresAt.Format(time.RFC3339),
		})
	} else {
		_, _ = fmt.Fprintf(writer, "Session token length: %d\n", len(credential.SessionToken))
		_, _ = fmt.Fprintf(writer, "XSRF token length:    %d\n", len(credential.XSRFToken))
		_, _ = fmt.Fprintf(writer, "Expires at:           %s\n", credential.ExpiresAt.Format(time.RFC3339))
	}

	logger.Info("portal session acquired",
		slog.Time("expires_at", credential.ExpiresAt),
	)

	return nil
}
