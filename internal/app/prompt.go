package app

import (
	"fmt"
	"os"
	"strings"
	"text/template"
)

// promptData fills the two placeholders of the prompt template.
type promptData struct {
	Context  string
	Question string
}

// LoadPromptTemplate parses the prompt template file. The template must be
// present and valid; a load failure is fatal at startup.
func LoadPromptTemplate(path string) (*template.Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt template failed: %w", err)
	}
	tmpl, err := template.New("prompt").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse prompt template failed: %w", err)
	}
	return tmpl, nil
}

func renderPrompt(tmpl *template.Template, context, question string) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, promptData{Context: context, Question: question}); err != nil {
		return "", fmt.Errorf("render prompt failed: %w", err)
	}
	return sb.String(), nil
}
