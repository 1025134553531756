package mailer

// Mailer is the email collaborator boundary.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}
