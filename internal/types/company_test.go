package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompanyRecord_MissingProfileFields(t *testing.T) {
	tests := []struct {
		name   string
		record CompanyRecord
		want   []string
	}{
		{
			name: "complete",
			record: CompanyRecord{
				YearEstablished: StringPtr("2012"),
				CompanySize:     StringPtr("50-100"),
				Headquarters:    StringPtr("Dallas, TX"),
				BusinessModel:   StringPtr("Independent contractors"),
			},
			want: nil,
		},
		{
			name: "blank counts as missing",
			record: CompanyRecord{
				YearEstablished: StringPtr("2012"),
				CompanySize:     StringPtr("  "),
				Headquarters:    StringPtr("Dallas, TX"),
			},
			want: []string{"company_size", "business_model"},
		},
		{
			name:   "empty",
			record: CompanyRecord{},
			want:   []string{"year_established", "company_size", "headquarters", "business_model"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.MissingProfileFields())
			assert.Equal(t, tt.want != nil, tt.record.IsIncomplete())
		})
	}
}

func TestActiveState_IsListed(t *testing.T) {
	yes, no := true, false
	assert.True(t, ActiveStateFromNullable(nil).IsListed())
	assert.True(t, ActiveStateFromNullable(&yes).IsListed())
	assert.False(t, ActiveStateFromNullable(&no).IsListed())
	assert.Equal(t, "unknown", ActiveStateFromNullable(nil).String())
}
