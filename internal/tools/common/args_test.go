package common

import "testing"

func TestRequiredString(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		key     string
		want    string
		wantErr bool
	}{
		{"present", map[string]any{"event_id": "evt-1"}, "event_id", "evt-1", false},
		{"missing", map[string]any{}, "event_id", "", true},
		{"empty", map[string]any{"event_id": ""}, "event_id", "", true},
		{"wrong type", map[string]any{"event_id": 42.0}, "event_id", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequiredString(tt.args, tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RequiredString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("RequiredString() = %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestOptionalString(t *testing.T) {
	args := map[string]any{"title": "Standup", "empty": ""}

	if value, ok := OptionalString(args, "title"); !ok || value != "Standup" {
		t.Errorf("OptionalString(title) = %q, %v", value, ok)
	}
	if _, ok := OptionalString(args, "empty"); ok {
		t.Error("OptionalString(empty) should report absence")
	}
	if _, ok := OptionalString(args, "missing"); ok {
		t.Error("OptionalString(missing) should report absence")
	}
}

func TestRequiredEpoch(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		want    int64
		wantErr bool
	}{
		{"json number", map[string]any{"start_datetime": 1700000000.0}, 1700000000, false},
		{"numeric string", map[string]any{"start_datetime": "1700000000"}, 1700000000, false},
		{"missing", map[string]any{}, 0, true},
		{"garbage string", map[string]any{"start_datetime": "tomorrow"}, 0, true},
		{"wrong type", map[string]any{"start_datetime": true}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequiredEpoch(tt.args, "start_datetime")
			if (err != nil) != tt.wantErr {
				t.Fatalf("RequiredEpoch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("RequiredEpoch() = %d, expected %d", got, tt.want)
			}
		})
	}
}

func TestOptionalEpoch(t *testing.T) {
	value, ok, err := OptionalEpoch(map[string]any{"end_datetime": 1700003600.0}, "end_datetime")
	if err != nil || !ok || value != 1700003600 {
		t.Errorf("OptionalEpoch(present) = %d, %v, %v", value, ok, err)
	}

	_, ok, err = OptionalEpoch(map[string]any{}, "end_datetime")
	if err != nil || ok {
		t.Errorf("OptionalEpoch(missing) = %v, %v, expected absent", ok, err)
	}

	_, _, err = OptionalEpoch(map[string]any{"end_datetime": "soon"}, "end_datetime")
	if err == nil {
		t.Error("OptionalEpoch(garbage) should error, not report absence")
	}
}

func TestRequiredFloat(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		want    float64
		wantErr bool
	}{
		{"json number", map[string]any{"latitude": 52.52}, 52.52, false},
		{"numeric string", map[string]any{"latitude": "52.52"}, 52.52, false},
		{"negative", map[string]any{"latitude": -0.07}, -0.07, false},
		{"missing", map[string]any{}, 0, true},
		{"garbage", map[string]any{"latitude": "north"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequiredFloat(tt.args, "latitude")
			if (err != nil) != tt.wantErr {
				t.Fatalf("RequiredFloat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("RequiredFloat() = %v, expected %v", got, tt.want)
			}
		})
	}
}
