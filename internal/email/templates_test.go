package email

import (
	"strings"
	"testing"
)

func TestRenderWelcomeTemplate(t *testing.T) {
	content, err := renderEmailTemplate("welcome.html", welcomeEmailData{
		baseEmailData: baseEmailData{
			Title:   subjectWelcome,
			Heading: subjectWelcome,
		},
		FirstName:        "Jane",
		OrganisationName: "Jane's Organisation",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if !strings.Contains(content, "Hi Jane,") {
		t.Fatal("rendered email must address the user by first name")
	}
	if !strings.Contains(content, "Jane&#39;s Organisation") {
		t.Fatal("rendered email must name the default organisation, escaped")
	}
	if !strings.Contains(content, "<html>") {
		t.Fatal("rendered email must include the base layout")
	}
}
