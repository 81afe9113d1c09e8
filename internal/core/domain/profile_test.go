package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfile_StructuredSkills(t *testing.T) {
	payload := `{
		"personal_information": {"full_name": "Ada Lovelace", "headline": "Programmer"},
		"skills": {"top_skills": ["Math", "Algorithms"], "languages": ["English", "French"]}
	}`

	p, err := ParseProfile([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", p.PersonalInformation.FullName)
	assert.Equal(t, []string{"Math", "Algorithms"}, p.Skills.TopSkills)
	assert.Equal(t, []string{"English", "French"}, p.Skills.Languages)
}

func TestParseProfile_BareSkillsArray(t *testing.T) {
	payload := `{
		"personal_information": {"full_name": "Grace Hopper"},
		"skills": ["COBOL", "Compilers"]
	}`

	p, err := ParseProfile([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, []string{"COBOL", "Compilers"}, p.Skills.TopSkills)
	assert.Empty(t, p.Skills.Languages)
}

func TestParseProfile_MalformedJSON(t *testing.T) {
	_, err := ParseProfile([]byte(`{"personal_information":`))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseProfile_NonObjectPayload(t *testing.T) {
	for _, payload := range []string{`[]`, `"profile"`, `42`, `null`} {
		_, err := ParseProfile([]byte(payload))
		assert.ErrorIs(t, err, ErrInvalidInput, "payload %s", payload)
	}
}

func TestParseProfile_UnknownFieldsIgnored(t *testing.T) {
	payload := `{"personal_information": {"full_name": "X"}, "certifications": ["AWS"]}`
	p, err := ParseProfile([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, "X", p.PersonalInformation.FullName)
}

func TestCanonicalJSON_NormalizesBareSkills(t *testing.T) {
	p, err := ParseProfile([]byte(`{"skills": ["Go", "SQL"]}`))
	require.NoError(t, err)

	canonical, err := p.CanonicalJSON()
	require.NoError(t, err)

	// Round-trips into the structured shape.
	again, err := ParseProfile([]byte(canonical))
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, again.Skills.TopSkills)
	assert.Contains(t, canonical, `"top_skills"`)
}

func TestDisplayName(t *testing.T) {
	p := &ResumeProfile{PersonalInformation: PersonalInformation{FullName: "  Alan Turing "}}
	assert.Equal(t, "Alan Turing", p.DisplayName())

	assert.Equal(t, "", (&ResumeProfile{}).DisplayName())
}
