// Package domain contains the core business entities for Profiledex:
// resume profile payloads, their deterministic flattening, profile
// records as persisted in the store, and query results.
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ResumeProfile is the canonical structured payload extracted from a
// resume. It is produced by an upstream extraction step and persisted
// verbatim as JSON on the record.
type ResumeProfile struct {
	PersonalInformation PersonalInformation `json:"personal_information"`
	Skills              Skills              `json:"skills"`
	Experience          []ExperienceEntry   `json:"experience,omitempty"`
	Education           []EducationEntry    `json:"education,omitempty"`
}

// PersonalInformation holds the identity block of a profile.
type PersonalInformation struct {
	FullName    string `json:"full_name,omitempty"`
	Headline    string `json:"headline,omitempty"`
	Location    string `json:"location,omitempty"`
	LinkedinURL string `json:"linkedin_url,omitempty"`
}

// Skills holds the skill lists of a profile.
//
// Upstream extractors have produced both a bare JSON array of skill names
// and the structured {"top_skills": [...], "languages": [...]} object.
// Both shapes are accepted and normalized into the structured form once,
// at parse time, so the rest of the pipeline only sees the canonical shape.
type Skills struct {
	TopSkills []string `json:"top_skills,omitempty"`
	Languages []string `json:"languages,omitempty"`
}

// skillsObject mirrors Skills for decoding without recursing into the
// custom unmarshaller.
type skillsObject struct {
	TopSkills []string `json:"top_skills"`
	Languages []string `json:"languages"`
}

// UnmarshalJSON accepts either a bare array of skills or the structured
// skills object.
func (s *Skills) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var bare []string
		if err := json.Unmarshal(data, &bare); err != nil {
			return fmt.Errorf("decoding bare skills list: %w", err)
		}
		s.TopSkills = bare
		s.Languages = nil
		return nil
	}

	var obj skillsObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decoding skills object: %w", err)
	}
	s.TopSkills = obj.TopSkills
	s.Languages = obj.Languages
	return nil
}

// ExperienceEntry is one work-history item, in resume order.
type ExperienceEntry struct {
	Company            string   `json:"company"`
	Title              string   `json:"title"`
	StartDate          string   `json:"start_date,omitempty"`
	EndDate            string   `json:"end_date,omitempty"`
	Duration           string   `json:"duration,omitempty"`
	Location           string   `json:"location,omitempty"`
	DescriptionBullets []string `json:"description_bullets,omitempty"`
}

// EducationEntry is one education item, in resume order.
type EducationEntry struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	StartYear    string `json:"start_year,omitempty"`
	EndYear      string `json:"end_year,omitempty"`
}

// ParseProfile decodes a serialized profile payload into its canonical
// shape. Malformed payloads are an ErrInvalidInput.
func ParseProfile(data []byte) (*ResumeProfile, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: invalid profile payload: %v", ErrInvalidInput, err)
	}
	if _, ok := probe.(map[string]any); !ok {
		return nil, fmt.Errorf("%w: profile payload must decode to an object", ErrInvalidInput)
	}

	var profile ResumeProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("%w: invalid profile payload: %v", ErrInvalidInput, err)
	}
	return &profile, nil
}

// CanonicalJSON serializes the profile in its normalized shape. Used at
// ingestion so stored payloads always carry the canonical skills form.
func (p *ResumeProfile) CanonicalJSON() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding profile payload: %w", err)
	}
	return string(data), nil
}

// DisplayName returns the trimmed full name, or empty if absent.
func (p *ResumeProfile) DisplayName() string {
	return strings.TrimSpace(p.PersonalInformation.FullName)
}

// ProfileRecord is one persisted resume profile. ArtifactPath is empty
// until a backfill attaches the record to an index artifact; it is only
// ever mutated by the backfill coordinator.
type ProfileRecord struct {
	ID           int64
	ExternalID   string
	SourcePath   string
	FullName     string
	ProfileJSON  string
	ExtractorTag string
	ArtifactPath string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ArtifactRow is the identity triple joined against index positions at
// query time. Rows are always ordered by ascending record id, matching
// the order vectors were added to the artifact.
type ArtifactRow struct {
	ID         int64
	ExternalID string
	FullName   string
}
