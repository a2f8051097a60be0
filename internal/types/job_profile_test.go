package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeniorityLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    SeniorityLevel
		wantErr bool
	}{
		{in: "senior", want: SenioritySenior},
		{in: "Senior", want: SenioritySenior},
		{in: "sr. engineer", want: SenioritySenior},
		{in: "Staff Engineer", want: SeniorityStaff},
		{in: "Principal", want: SeniorityPrincipal},
		{in: "Head of Platform", want: SeniorityDirector},
		{in: "jr developer", want: SeniorityJunior},
		{in: "Intern", want: SeniorityEntry},
		{in: "mid-level", want: SeniorityMid},
		{in: "wizard", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeniorityLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJobProfile_Validate(t *testing.T) {
	valid := JobProfile{RoleTitle: "Backend Engineer", SeniorityLevel: SenioritySenior, YearsRequired: 5, KeySkills: []string{"Go"}}
	assert.NoError(t, valid.Validate())

	noTitle := valid
	noTitle.RoleTitle = ""
	assert.Error(t, noTitle.Validate())

	badLevel := valid
	badLevel.SeniorityLevel = "wizard"
	assert.Error(t, badLevel.Validate())

	tooManyYears := valid
	tooManyYears.YearsRequired = 60
	assert.Error(t, tooManyYears.Validate())
}

func TestGenerationConfig_WithDefaults(t *testing.T) {
	cfg := GenerationConfig{}.WithDefaults()
	assert.Equal(t, DefaultTargetScore, cfg.TargetScore)
	assert.Equal(t, DefaultMaxAttempts, cfg.MaxAttempts)

	cfg = GenerationConfig{TargetScore: 80, MaxAttempts: 3, TargetPages: 1}.WithDefaults()
	assert.Equal(t, 80, cfg.TargetScore)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 1, cfg.TargetPages)
}

func TestGenerationConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     GenerationConfig
		wantErr bool
	}{
		{name: "defaults", cfg: GenerationConfig{}.WithDefaults()},
		{name: "lowest target", cfg: GenerationConfig{TargetScore: 1, MaxAttempts: 1, TargetPages: 2}},
		{name: "zero target skipped defaults", cfg: GenerationConfig{MaxAttempts: 3}, wantErr: true},
		{name: "zero attempts skipped defaults", cfg: GenerationConfig{TargetScore: 80}, wantErr: true},
		{name: "target above 100", cfg: GenerationConfig{TargetScore: 101}.WithDefaults(), wantErr: true},
		{name: "three pages", cfg: GenerationConfig{TargetPages: 3}.WithDefaults(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestContentPlan_AllotmentFor(t *testing.T) {
	plan := ContentPlan{Allotments: []Allotment{{ExperienceIndex: 2, Bullets: 6}}}
	assert.Equal(t, 6, plan.AllotmentFor(2, 1))
	assert.Equal(t, 1, plan.AllotmentFor(0, 1))
}
