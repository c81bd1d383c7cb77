package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		errMsg  string
		wantErr bool
	}{
		{name: "valid title", title: "Groceries"},
		{name: "exactly max length", title: strings.Repeat("t", MaxTitleLen)},
		{name: "multibyte max length", title: strings.Repeat("я", MaxTitleLen)},
		{name: "empty", title: "", wantErr: true, errMsg: "title is required"},
		{name: "blank", title: "  \n ", wantErr: true, errMsg: "title is required"},
		{name: "too long", title: strings.Repeat("t", MaxTitleLen+1), wantErr: true, errMsg: "title must not exceed 100 characters"},
		{name: "multibyte too long", title: strings.Repeat("я", MaxTitleLen+1), wantErr: true, errMsg: "title must not exceed 100 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTitle(tt.title)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}
