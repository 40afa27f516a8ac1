package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSignUp(t *testing.T) {
	t.Parallel()

	valid := SignUpRequest{
		FirstName: "A",
		LastName:  "B",
		UserName:  "ab1",
		Email:     "a@b.com",
		Password:  "password1",
	}
	assert.Empty(t, ValidateSignUp(valid))

	tests := []struct {
		name      string
		mutate    func(*SignUpRequest)
		wantField string
	}{
		{"Empty First Name", func(r *SignUpRequest) { r.FirstName = "" }, "firstName"},
		{"Empty Last Name", func(r *SignUpRequest) { r.LastName = "" }, "lastName"},
		{"Empty Username", func(r *SignUpRequest) { r.UserName = "" }, "userName"},
		{"Empty Email", func(r *SignUpRequest) { r.Email = "" }, "email"},
		{"Malformed Email", func(r *SignUpRequest) { r.Email = "not-an-email" }, "email"},
		{"Empty Password", func(r *SignUpRequest) { r.Password = "" }, "password"},
		{"Short Password", func(r *SignUpRequest) { r.Password = "seven77" }, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			errs := ValidateSignUp(req)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantField, errs[0].Field)
		})
	}
}

func TestValidateSignUp_AccumulatesErrors(t *testing.T) {
	t.Parallel()

	errs := ValidateSignUp(SignUpRequest{})
	assert.Len(t, errs, 5)
}

func TestValidateTweetContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"Valid", "hello world", false},
		{"Exactly Max", strings.Repeat("a", 280), false},
		{"Empty", "", true},
		{"One Over", strings.Repeat("a", 281), true},
		// 280 runes of a multi-byte character exceed 280 bytes but
		// are still within the limit.
		{"Multi Byte At Max", strings.Repeat("é", 280), false},
		{"Multi Byte Over", strings.Repeat("é", 281), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTweetContent(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAge(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		birthdate time.Time
		want      int
	}{
		{"Birthday Today", time.Date(2006, 6, 15, 0, 0, 0, 0, time.UTC), 18},
		{"Birthday Tomorrow", time.Date(2006, 6, 16, 0, 0, 0, 0, time.UTC), 17},
		{"Birthday Yesterday", time.Date(2006, 6, 14, 0, 0, 0, 0, time.UTC), 18},
		{"Twenty", time.Date(2004, 1, 1, 0, 0, 0, 0, time.UTC), 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Age(tt.birthdate, now))
		})
	}
}

func TestParseBirthdate(t *testing.T) {
	t.Parallel()

	got, err := ParseBirthdate("2004-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2004, 2, 29, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseBirthdate("29/02/2004")
	assert.Error(t, err)
}
