package mailer

import "fmt"

// Template is provider-side mail content; {{name}}-style placeholders are
// substituted by the provider from per-recipient data.
type Template struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// WelcomeContent is the mail sent to a new subscriber.
func WelcomeContent(frontendURL string) Template {
	return Template{
		Title: "Welcome to FAC!",
		Body: fmt.Sprintf("Dear {{name}},\n\n"+
			"Welcome aboard! We're thrilled to have you join FAC.\n\n"+
			"Stay connected for our latest posts and updates.\n\n"+
			"Best regards,\nFAC Team\n%s", frontendURL),
	}
}

// NewPostContent is the mail fanned out to subscribers when a post is published.
func NewPostContent(frontendURL string) Template {
	return Template{
		Title: "New post: {{title}}",
		Body: fmt.Sprintf("Hi {{name}}!,\n\n"+
			"A new article has been published: \"{{title}}\"\n\n"+
			"{{excerpt}}\n\n"+
			"Read it now: {{postUrl}}\n\n"+
			"If you no longer wish to receive these alerts, update your preferences on the site.\n\n"+
			"Best regards,\nFAC Team\n%s", frontendURL),
	}
}
