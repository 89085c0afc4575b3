package auth

import (
	"fmt"
	"html/template"
	"strings"
)

const (
	verificationSubject = "Verify your VolunHub account"
	welcomeSubject      = "Welcome to VolunHub"

	tagSignupCode    = "signup-code"
	tagSignupSuccess = "signup-success"
)

var verificationTmpl = template.Must(template.New("verification").Parse(`<html>
<body style="font-family: sans-serif; color: #333;">
<h2>Verify your email</h2>
<p>Hi {{.Name}},</p>
<p>Use this code to verify your VolunHub account:</p>
<p style="font-size: 28px; font-weight: bold; letter-spacing: 4px;">{{.Code}}</p>
<p>The code expires in {{.TTL}}. If you didn't sign up, you can ignore this email.</p>
</body>
</html>`))

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<html>
<body style="font-family: sans-serif; color: #333;">
<h2>Welcome aboard, {{.Name}}!</h2>
<p>Your VolunHub account is verified. You can now log in and start
{{if .IsOrganisation}}posting projects for volunteers near you{{else}}joining projects near you{{end}}.</p>
</body>
</html>`))

func renderVerificationEmail(name, code, ttl string) (string, error) {
	var b strings.Builder
	err := verificationTmpl.Execute(&b, struct {
		Name, Code, TTL string
	}{Name: name, Code: code, TTL: ttl})
	if err != nil {
		return "", fmt.Errorf("render verification email: %w", err)
	}
	return b.String(), nil
}

func renderWelcomeEmail(name string, isOrganisation bool) (string, error) {
	var b strings.Builder
	err := welcomeTmpl.Execute(&b, struct {
		Name           string
		IsOrganisation bool
	}{Name: name, IsOrganisation: isOrganisation})
	if err != nil {
		return "", fmt.Errorf("render welcome email: %w", err)
	}
	return b.String(), nil
}
