package domain

import "strings"

// Flatten projects the profile into the deterministic text blob used as
// embedding input. The projection is pure: the same payload always yields
// byte-identical text. Absent or empty fields are skipped; a profile with
// no derivable lines yields the empty string, which callers must treat as
// an error condition before embedding.
func (p *ResumeProfile) Flatten() string {
	var lines []string

	if name := clean(p.PersonalInformation.FullName); name != "" {
		lines = append(lines, "Full Name: "+name)
	}
	if headline := clean(p.PersonalInformation.Headline); headline != "" {
		lines = append(lines, "Headline: "+headline)
	}

	if skills := cleanList(p.Skills.TopSkills); len(skills) > 0 {
		lines = append(lines, "Skills: "+strings.Join(skills, ", "))
	}

	var experienceLines []string
	for _, item := range p.Experience {
		var parts []string
		if company := clean(item.Company); company != "" {
			parts = append(parts, company)
		}
		if title := clean(item.Title); title != "" {
			parts = append(parts, title)
		}
		start := clean(item.StartDate)
		end := clean(item.EndDate)
		if start != "" || end != "" {
			parts = append(parts, dateRange(start, end))
		}
		if bullets := cleanList(item.DescriptionBullets); len(bullets) > 0 {
			parts = append(parts, strings.Join(bullets, "; "))
		}
		if len(parts) > 0 {
			experienceLines = append(experienceLines, "- "+strings.Join(parts, " | "))
		}
	}
	if len(experienceLines) > 0 {
		lines = append(lines, "Experience:")
		lines = append(lines, experienceLines...)
	}

	var educationLines []string
	for _, item := range p.Education {
		var parts []string
		if institution := clean(item.Institution); institution != "" {
			parts = append(parts, institution)
		}
		degree := clean(item.Degree)
		field := clean(item.FieldOfStudy)
		switch {
		case degree != "" && field != "":
			parts = append(parts, degree+" in "+field)
		case degree != "":
			parts = append(parts, degree)
		case field != "":
			parts = append(parts, field)
		}
		startYear := clean(item.StartYear)
		endYear := clean(item.EndYear)
		if startYear != "" || endYear != "" {
			parts = append(parts, dateRange(startYear, endYear))
		}
		if len(parts) > 0 {
			educationLines = append(educationLines, "- "+strings.Join(parts, " | "))
		}
	}
	if len(educationLines) > 0 {
		lines = append(lines, "Education:")
		lines = append(lines, educationLines...)
	}

	return strings.Join(lines, "\n")
}

// dateRange renders a "start - end" range, substituting "Unknown" for a
// missing start and "Present" for a missing end.
func dateRange(start, end string) string {
	if start == "" {
		start = "Unknown"
	}
	if end == "" {
		end = "Present"
	}
	return start + " - " + end
}

func clean(s string) string {
	return strings.TrimSpace(s)
}

// cleanList trims every entry and drops empties, preserving input order.
func cleanList(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
