//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/medexjob/medexjob-api/internal/errors"
)

func TestKYCSubmission_Validate(t *testing.T) {
	tests := []struct {
		name        string
		aadhaar     string
		pan         string
		wantField   string
		wantAadhaar string
		wantPAN     string
	}{
		{
			name:        "spaces stripped",
			aadhaar:     " 2345 6789 0123 ",
			pan:         "ABCDE1234F",
			wantAadhaar: "234567890123",
			wantPAN:     "ABCDE1234F",
		},
		{
			name:        "dashes stripped",
			aadhaar:     "9876-5432-1098",
			pan:         "ABCDE1234F",
			wantAadhaar: "987654321098",
			wantPAN:     "ABCDE1234F",
		},
		{
			name:        "pan upper-cased",
			aadhaar:     "234567890123",
			pan:         " abcde1234f ",
			wantAadhaar: "234567890123",
			wantPAN:     "ABCDE1234F",
		},
		{name: "aadhaar empty", aadhaar: " - ", pan: "ABCDE1234F", wantField: "aadhaar_number"},
		{name: "aadhaar leading zero", aadhaar: "0234 5678 9012", pan: "ABCDE1234F", wantField: "aadhaar_number"},
		{name: "aadhaar leading one", aadhaar: "1234 5678 9012", pan: "ABCDE1234F", wantField: "aadhaar_number"},
		{name: "aadhaar eleven digits", aadhaar: "23456789012", pan: "ABCDE1234F", wantField: "aadhaar_number"},
		{name: "aadhaar letters", aadhaar: "2345678901AB", pan: "ABCDE1234F", wantField: "aadhaar_number"},
		{name: "pan empty", aadhaar: "234567890123", pan: "  ", wantField: "pan_number"},
		{name: "pan four letters", aadhaar: "234567890123", pan: "ABCD12345F", wantField: "pan_number"},
		{name: "pan missing check letter", aadhaar: "234567890123", pan: "ABCDE1234", wantField: "pan_number"},
		{name: "pan trailing digit", aadhaar: "234567890123", pan: "ABCDE12345", wantField: "pan_number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &KYCSubmission{AadhaarNumber: tt.aadhaar, PANNumber: tt.pan}
			err := s.Validate()
			if tt.wantField != "" {
				require.Error(t, err)
				assert.True(t, apperrors.IsValidation(err))
				assert.Equal(t, tt.wantField, apperrors.GetField(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAadhaar, s.AadhaarNumber)
			assert.Equal(t, tt.wantPAN, s.PANNumber)
		})
	}
}

func TestKYCMasking(t *testing.T) {
	assert.Equal(t, "0123", MaskAadhaar("234567890123"))
	assert.Equal(t, "", MaskAadhaar("12"))
	assert.Equal(t, "AB******4F", MaskPAN("ABCDE1234F"))
	assert.Equal(t, "***", MaskPAN("ABC"))
}
