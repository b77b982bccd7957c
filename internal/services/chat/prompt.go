package chat

import (
	"fmt"
	"strings"

	"github.com/m2dev/codefolio/internal/domain/model"
)

// BuildSystemPrompt renders the portfolio into the instruction the model
// answers from. Only data already published on the site goes in.
func BuildSystemPrompt(p model.Portfolio) string {
	var b strings.Builder

	owner := "the site owner"
	if p.Profile != nil && strings.TrimSpace(p.Profile.Name) != "" {
		owner = p.Profile.Name
	}

	fmt.Fprintf(&b, "You are a portfolio assistant answering visitor questions on behalf of %s.\n", owner)
	b.WriteString("Answer only from the facts below. If something is not covered, say you do not know and point the visitor to the contact details. Keep answers short and friendly.\n")

	if p.Profile != nil {
		b.WriteString("\nAbout:\n")
		writeField(&b, "Name", p.Profile.Name)
		writeField(&b, "Title", p.Profile.Title)
		writeField(&b, "Bio", p.Profile.Bio)
		writeField(&b, "Location", p.Profile.Location)
		writeField(&b, "Email", p.Profile.Email)
		writeField(&b, "Website", p.Profile.Website)
		writeField(&b, "GitHub", p.Profile.Github)
		writeField(&b, "LinkedIn", p.Profile.Linkedin)
	}

	if len(p.Skills) > 0 {
		b.WriteString("\nSkills:\n")
		for _, skill := range p.Skills {
			fmt.Fprintf(&b, "- %s (%s, level %d/100)\n", skill.Name, skill.Category, skill.Level)
		}
	}

	if len(p.Projects) > 0 {
		b.WriteString("\nProjects:\n")
		for _, project := range p.Projects {
			fmt.Fprintf(&b, "- %s: %s", project.Title, project.Description)
			if len(project.Technologies) > 0 {
				fmt.Fprintf(&b, " (built with %s)", strings.Join(project.Technologies, ", "))
			}
			b.WriteString("\n")
		}
	}

	if len(p.Experiences) > 0 {
		b.WriteString("\nExperience:\n")
		for _, exp := range p.Experiences {
			end := exp.EndDate
			if exp.Current {
				end = "present"
			}
			fmt.Fprintf(&b, "- %s at %s (%s to %s)\n", exp.Title, exp.Company, exp.StartDate, end)
		}
	}

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}
