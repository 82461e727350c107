package capture_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/sql-migrate-runner/internal/capture"
)

const screen = `Column {
    item {
        Card(modifier = Modifier.testTag("workout_structure"))
        {
            Text("structure")
        }
    }

    // Empty state for missing workout structure
    item { EmptyState() }
}
`

func TestBetween(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		start   string
		end     string
		want    string
		wantErr error
	}{
		{
			name:  "start inclusive end exclusive",
			text:  screen,
			start: "    item {\n        Card(",
			end:   "\n    // Empty state",
			want:  "    item {\n        Card(modifier = Modifier.testTag(\"workout_structure\"))\n        {\n            Text(\"structure\")\n        }\n    }\n",
		},
		{
			name:  "end searched from start",
			text:  "END a START b END c",
			start: "START",
			end:   "END",
			want:  "START b ",
		},
		{
			name:  "end may overlap start position",
			text:  "xxabcyy",
			start: "abc",
			end:   "a",
			want:  "",
		},
		{
			name:  "first occurrence of start wins",
			text:  "<1> one </> <2> two </>",
			start: "<",
			end:   "</>",
			want:  "<1> one ",
		},
		{
			name:    "missing start",
			text:    screen,
			start:   "LazyColumn",
			end:     "}",
			wantErr: capture.ErrStartNotFound,
		},
		{
			name:    "end only before start",
			text:    "END START tail",
			start:   "START",
			end:     "END",
			wantErr: capture.ErrEndNotFound,
		},
		{
			name:    "empty start marker",
			text:    screen,
			start:   "",
			end:     "}",
			wantErr: capture.ErrEmptyMarker,
		},
		{
			name:    "empty end marker",
			text:    screen,
			start:   "item",
			end:     "",
			wantErr: capture.ErrEmptyMarker,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := capture.Between(tt.text, tt.start, tt.end)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBetween_longMarkerIsTruncatedInError(t *testing.T) {
	t.Parallel()

	marker := strings.Repeat("m", 100)

	_, err := capture.Between("text", marker, "x")
	require.ErrorIs(t, err, capture.ErrStartNotFound)
	assert.NotContains(t, err.Error(), marker)
	assert.Contains(t, err.Error(), "...")
}

func TestBetween_multibyteMarkerIsCutOnCharacterBoundary(t *testing.T) {
	t.Parallel()

	marker := strings.Repeat("a", 39) + "éèê" + strings.Repeat("b", 20)

	_, err := capture.Between("text", marker, "x")
	require.ErrorIs(t, err, capture.ErrStartNotFound)
	assert.Contains(t, err.Error(), strings.Repeat("a", 39)+"é...")
	assert.NotContains(t, err.Error(), `\x`)
}

func TestFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "TrainingDetailScreen.kt")
	require.NoError(t, os.WriteFile(path, []byte(screen), 0o644))

	got, err := capture.File(path, "Text(", "\n")
	require.NoError(t, err)
	assert.Equal(t, `Text("structure")`, got)
}

func TestFile_missingMarkerWrapsPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "screen.kt")
	require.NoError(t, os.WriteFile(path, []byte(screen), 0o644))

	_, err := capture.File(path, "nope", "}")
	require.ErrorIs(t, err, capture.ErrStartNotFound)
	assert.Contains(t, err.Error(), path)
}

func TestFile_missingFile(t *testing.T) {
	t.Parallel()

	_, err := capture.File(filepath.Join(t.TempDir(), "absent.kt"), "a", "b")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "reading capture source")
}
