package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEnrollmentHTML(t *testing.T) {
	html, err := RenderEnrollmentHTML(EnrollmentEmail{
		StudentName: "Sam",
		CourseTitle: "Go <Basics>",
		MentorName:  "Mia",
		Level:       "beginner",
		Duration:    135,
		CourseLink:  "https://learnhub.dev/courses/1",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Hi Sam,")
	assert.Contains(t, html, "Go &lt;Basics&gt;")
	assert.Contains(t, html, "Mia will be your mentor")
	assert.Contains(t, html, "2h 15m")
	assert.Contains(t, html, `href="https://learnhub.dev/courses/1"`)

	html, err = RenderEnrollmentHTML(EnrollmentEmail{CourseTitle: "Go", Duration: 45})
	require.NoError(t, err)
	assert.Contains(t, html, "Hi there,")
	assert.Contains(t, html, "45 min")
	assert.NotContains(t, html, "Start learning")
}

func TestSMTPSenderDisabled(t *testing.T) {
	assert.Nil(t, NewSMTPSender(SMTPConfig{}))
	assert.Nil(t, NewSMTPSender(SMTPConfig{Host: "smtp.example.com"}))
	assert.NotNil(t, NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@learnhub.dev"}))
}

func TestEnrollmentSubject(t *testing.T) {
	assert.Equal(t, "You're enrolled in Go", EnrollmentSubject("Go"))
}
