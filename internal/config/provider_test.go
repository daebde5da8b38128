// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"

	"github.com/invowk/pkgtarget/pkg/types"
)

func TestLoadOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       LoadOptions
		wantFields int
	}{
		{"all empty", LoadOptions{}, 0},
		{"all valid", LoadOptions{ConfigFilePath: "/tmp/config.cue", ConfigDirPath: "/tmp/config"}, 0},
		{"whitespace file", LoadOptions{ConfigFilePath: types.FilesystemPath("   ")}, 1},
		{"both invalid", LoadOptions{ConfigFilePath: "\t", ConfigDirPath: " "}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.opts.Validate()
			if tt.wantFields == 0 {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidLoadOptions) {
				t.Fatalf("Validate() error = %v, want ErrInvalidLoadOptions", err)
			}
			var loadErr *InvalidLoadOptionsError
			if !errors.As(err, &loadErr) || len(loadErr.FieldErrors) != tt.wantFields {
				t.Errorf("Validate() = %v, want %d field errors", err, tt.wantFields)
			}
		})
	}
}

func TestInvalidLoadOptionsError_Error(t *testing.T) {
	t.Parallel()

	single := &InvalidLoadOptionsError{FieldErrors: []error{errors.New("test error")}}
	if single.Error() != "invalid load options: test error" {
		t.Errorf("Error() = %q", single.Error())
	}
	multiple := &InvalidLoadOptionsError{FieldErrors: []error{errors.New("a"), errors.New("b")}}
	if multiple.Error() != "invalid load options: 2 field errors" {
		t.Errorf("Error() = %q", multiple.Error())
	}
}
