package resource

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestJSONRoundTripNullExpiry(t *testing.T) {
	r := Resource{
		URI:       "resource://schemas/abc",
		Type:      TypeSchema,
		Name:      "prod",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Payload: &SchemaPayload{
			DatabaseType: "sqlite",
			Tables: map[string]TableSchema{
				"users": {Columns: []ColumnSchema{{Name: "id", Type: "INTEGER", PrimaryKey: true}}},
			},
		},
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"expires_at":null`) {
		t.Errorf("expected explicit null expires_at, got %s", data)
	}
	if !strings.Contains(string(data), `"last_accessed":null`) {
		t.Errorf("expected explicit null last_accessed, got %s", data)
	}

	var back Resource
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back.ExpiresAt != nil || back.LastAccessed != nil {
		t.Error("null timestamps must survive the round trip as nil")
	}
	if back.URI != r.URI || back.Type != r.Type || !back.CreatedAt.Equal(r.CreatedAt) {
		t.Errorf("identity fields lost: %+v", back)
	}

	schema, ok := back.Payload.(*SchemaPayload)
	if !ok {
		t.Fatalf("expected *SchemaPayload, got %T", back.Payload)
	}
	if schema.DatabaseType != "sqlite" || len(schema.Tables) != 1 {
		t.Errorf("schema payload lost: %+v", schema)
	}
	if !schema.Tables["users"].Columns[0].PrimaryKey {
		t.Error("primary key flag lost")
	}
}

func TestJSONRoundTripPayloadVariants(t *testing.T) {
	expires := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	accessed := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		r    Resource
	}{
		{
			"table",
			Resource{
				URI: "resource://tables/1", Type: TypeTable, Tags: []string{"sales"},
				Category: CategoryData, ExpiresAt: &expires,
				AccessCount: 3, LastAccessed: &accessed,
				Payload: &TablePayload{
					SQLQuery: "SELECT 1",
					Columns:  []string{"one"},
					Rows:     []map[string]any{{"one": float64(1)}},
					RowCount: 1,
				},
			},
		},
		{
			"chart",
			Resource{
				URI: "resource://charts/1", Type: TypeChart,
				Payload: &ChartPayload{
					ChartType: "bar",
					Series:    []Series{{Labels: []string{"a"}, Values: []float64{1.5}}},
					Stats:     &SeriesStats{Count: 1, Mean: 1.5, Median: 1.5, Min: 1.5, Max: 1.5},
				},
			},
		},
		{
			"ml",
			Resource{
				URI: "resource://ml/1", Type: TypeML,
				Payload: &MLPayload{
					ModelType:    "linear_regression",
					Target:       "y",
					Features:     []string{"x"},
					Coefficients: map[string]float64{"x": 2},
					Intercept:    1,
					RSquared:     0.99,
					SampleSize:   10,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.r)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}

			var back Resource
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if back.Payload == nil {
				t.Fatal("payload lost")
			}

			again, err := json.Marshal(back)
			if err != nil {
				t.Fatalf("re-marshal failed: %v", err)
			}
			if string(data) != string(again) {
				t.Errorf("round trip not stable:\n%s\n%s", data, again)
			}
		})
	}
}

func TestUnmarshalRejectsUnknownType(t *testing.T) {
	doc := `{"uri":"resource://widgets/1","type":"widget","created_at":"2025-06-01T12:00:00Z"}`
	var r Resource
	if err := json.Unmarshal([]byte(doc), &r); err == nil {
		t.Error("expected error for unknown resource type")
	}
}

func TestMLPayloadWireNames(t *testing.T) {
	data, err := json.Marshal(&MLPayload{ModelType: "linear_regression", Target: "y"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"ml_type":"linear_regression"`) {
		t.Errorf("expected ml_type key, got %s", data)
	}
}
