package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseProcessID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    ProcessID
		wantErr bool
	}{
		{"full id", "PROC_PAINT", ProcPaint, false},
		{"short lowercase", "load", ProcLoad, false},
		{"empty clears", "  ", "", false},
		{"unknown", "PROC_WELD", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProcessID(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidProcess)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseLocationID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    LocationID
		wantErr bool
	}{
		{"lower bound", "1", 1, false},
		{"upper bound", "6", 6, false},
		{"empty clears", "", 0, false},
		{"zero", "0", 0, true},
		{"seven", "7", 0, true},
		{"not a number", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocationID(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidLocation)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParsePhotoID(t *testing.T) {
	id, err := ParsePhotoID("7")
	require.NoError(t, err)
	require.Equal(t, 7, id)

	_, err = ParsePhotoID("-1")
	require.ErrorIs(t, err, ErrIncorrectID)

	_, err = ParsePhotoID("x")
	require.ErrorIs(t, err, ErrIncorrectID)
}

func TestLocations(t *testing.T) {
	require.Equal(t, []LocationID{1, 2, 3, 4, 5, 6}, Locations())
}

func TestMessagesFor(t *testing.T) {
	require.Equal(t, "ko", MessagesFor("").Lang)
	require.Equal(t, "en", MessagesFor("en").Lang)
	require.Equal(t, "Really delete this photo (ID: 7)?", MessagesFor("en").ConfirmDeletePrompt(7))
	require.Equal(t, "Paint", MessagesFor("en").ProcessText(ProcPaint))
	require.Equal(t, "PROC_X", MessagesFor("en").ProcessText("PROC_X"))
}

// подписи покраски и погрузки закреплены за своими id
func TestProcessLabels_PaintAndLoadNotSwapped(t *testing.T) {
	ko := MessagesFor("ko")
	require.Equal(t, "도장", ko.ProcessText(ProcPaint))
	require.Equal(t, "적재", ko.ProcessText(ProcLoad))

	en := MessagesFor("en")
	require.Equal(t, "Paint", en.ProcessText(ProcPaint))
	require.Equal(t, "Load", en.ProcessText(ProcLoad))

	for _, m := range []Messages{ko, en} {
		seen := map[string]ProcessID{}
		for _, p := range Processes {
			label := m.ProcessText(p)
			prev, dup := seen[label]
			require.Falsef(t, dup, "%s: %s and %s share label %q", m.Lang, prev, p, label)
			seen[label] = p
		}
	}
}

func TestIsValidation(t *testing.T) {
	require.True(t, IsValidation(ErrNoFileSelected))
	require.True(t, IsValidation(ErrMissingLocation))
	require.False(t, IsValidation(ErrNetwork))
	require.False(t, IsValidation(ErrDeleteCancelled))
}
