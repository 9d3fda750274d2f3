package validator_test

import (
	"strings"
	"testing"

	"github.com/ChrisB2025/Keystroke-Kingdom/internal/validator"
)

func TestValidateGameState(t *testing.T) {
	tests := []struct {
		name    string
		state   map[string]interface{}
		wantErr string // vide => valide
	}{
		{
			name:  "valid state",
			state: map[string]interface{}{"currentDay": 50.0, "employment": 50.0, "inflation": 0.0},
		},
		{
			name:  "valid bounds",
			state: map[string]interface{}{"currentDay": 1.0, "employment": 0.0, "inflation": -10.0},
		},
		{
			name:    "missing currentDay",
			state:   map[string]interface{}{"employment": 50.0, "inflation": 0.0},
			wantErr: "currentDay",
		},
		{
			name:    "missing employment",
			state:   map[string]interface{}{"currentDay": 3.0, "inflation": 0.0},
			wantErr: "employment",
		},
		{
			name:    "day zero",
			state:   map[string]interface{}{"currentDay": 0.0, "employment": 50.0, "inflation": 0.0},
			wantErr: "currentDay must be between 1 and 100",
		},
		{
			name:    "day over 100",
			state:   map[string]interface{}{"currentDay": 101.0, "employment": 50.0, "inflation": 0.0},
			wantErr: "currentDay must be between 1 and 100",
		},
		{
			name:    "day not integral",
			state:   map[string]interface{}{"currentDay": 4.5, "employment": 50.0, "inflation": 0.0},
			wantErr: "currentDay must be an integer",
		},
		{
			name:    "day not a number",
			state:   map[string]interface{}{"currentDay": "ten", "employment": 50.0, "inflation": 0.0},
			wantErr: "currentDay must be an integer",
		},
		{
			name:    "employment out of range",
			state:   map[string]interface{}{"currentDay": 10.0, "employment": 120.0, "inflation": 0.0},
			wantErr: "employment must be between",
		},
		{
			name:    "inflation below floor",
			state:   map[string]interface{}{"currentDay": 10.0, "employment": 50.0, "inflation": -11.0},
			wantErr: "inflation must be between",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateGameState(tt.state)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
