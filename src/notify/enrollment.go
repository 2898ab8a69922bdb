package notify

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
)

type EnrollmentEmail struct {
	StudentName string
	CourseTitle string
	MentorName  string
	Level       string
	Duration    int
	CourseLink  string
}

//go:embed enrollment.html
var enrollmentHTML string

var enrollmentTmpl = template.Must(template.New("enrollment").
	Funcs(template.FuncMap{
		"hours": func(minutes int) string {
			if minutes < 60 {
				return fmt.Sprintf("%d min", minutes)
			}
			return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
		},
	}).
	Parse(enrollmentHTML))

func EnrollmentSubject(courseTitle string) string {
	return "You're enrolled in " + courseTitle
}

func RenderEnrollmentHTML(data EnrollmentEmail) (string, error) {
	if data.StudentName == "" {
		data.StudentName = "there"
	}
	var buf bytes.Buffer
	if err := enrollmentTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
