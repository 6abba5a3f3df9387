package email

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

const welcomeTemplate = `# Welcome to FitClub, %s!

Your membership account is ready.

%s

Log in any time to check your plan and when it renews.
`

// Welcome builds the message sent after a member registers.
// planName may be empty when no default plan was assigned.
// PRE: to is a valid address
// POST: Returns a request with a rendered HTML body
func Welcome(to, username, planName string) (SendRequest, error) {
	planLine := "No plan has been assigned yet; ask at the front desk to choose one."
	if planName != "" {
		planLine = fmt.Sprintf("You are on the **%s** plan.", planName)
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(fmt.Sprintf(welcomeTemplate, username, planLine)), &buf); err != nil {
		return SendRequest{}, fmt.Errorf("render welcome email: %w", err)
	}
	return SendRequest{
		To:      []string{to},
		Subject: "Welcome to FitClub",
		HTML:    buf.String(),
	}, nil
}
