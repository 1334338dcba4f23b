package contact

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/granddom/site/pkg/logger"
)

// Submission is an accepted form.
type Submission struct {
	ReceivedAt time.Time
	Reference  string
	Locale     string
	Form       Form
}

// Submitter accepts validated forms.
type Submitter interface {
	Submit(ctx context.Context, locale string, f Form) (Submission, error)
}

// LogSubmitter records submissions in the log and delivers nothing.
type LogSubmitter struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewLogSubmitter creates a submitter that logs to l. A nil logger discards.
func NewLogSubmitter(l *slog.Logger) *LogSubmitter {
	if l == nil {
		l = logger.NewNope()
	}
	return &LogSubmitter{logger: l, now: time.Now}
}

// Submit validates f, assigns a reference id and logs the submission.
// Personal fields other than the email domain are not logged.
func (s *LogSubmitter) Submit(ctx context.Context, locale string, f Form) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}
	if err := f.Validate(); err != nil {
		return Submission{}, err
	}

	sub := Submission{
		ReceivedAt: s.now().UTC(),
		Reference:  uuid.NewString(),
		Locale:     locale,
		Form:       f,
	}

	s.logger.InfoContext(ctx, "contact form submitted",
		slog.String("reference", sub.Reference),
		slog.String("locale", locale),
		slog.String("service", f.Service),
		slog.String("budget", f.Budget),
		slog.String("timeline", f.Timeline),
		slog.String("email_domain", emailDomain(f.Email)),
		slog.Int("message_length", len(f.Message)),
	)

	return sub, nil
}

func emailDomain(email string) string {
	if i := strings.LastIndexByte(email, '@'); i >= 0 {
		return email[i+1:]
	}
	return ""
}

var _ Submitter = (*LogSubmitter)(nil)
