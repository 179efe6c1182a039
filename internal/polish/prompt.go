package polish

import "strings"

const (
	promptIntro       = "Here is the CV info:"
	promptInstruction = "Please polish it into a professional CV format. At the end, add one helpful tip to improve job applications."
)

// BuildPrompt renders fields into the completion prompt. It is deterministic,
// and empty fields are left out.
func BuildPrompt(f ResumeFields) string {
	var b strings.Builder
	b.WriteString(promptIntro)
	b.WriteString("\n")
	writeField(&b, "Name", f.Name)
	writeField(&b, "Email", f.Email)
	writeField(&b, "Education", f.Education)
	writeField(&b, "Experience", f.Experience)
	writeField(&b, "Skills", f.Skills)
	b.WriteString("\n")
	b.WriteString(promptInstruction)
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}
