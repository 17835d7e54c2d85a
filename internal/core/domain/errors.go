package domain

import "go.trai.ch/zerr"

var (
	// ErrKeyNotFound is returned when a key is read or deleted that is not present.
	ErrKeyNotFound = zerr.New("key not found")

	// ErrCalculationFailed is the cause carried by every rule evaluation failure.
	ErrCalculationFailed = zerr.New("rule evaluation failed")

	// ErrAggregationFailed is the cause carried by every reducer failure in an aggregator.
	ErrAggregationFailed = zerr.New("aggregation failed")

	// ErrInvalidKey is returned when a key cannot be used as a map key.
	ErrInvalidKey = zerr.New("key is not comparable")

	// ErrStructural is returned when an entry is found that is neither a rule nor a value.
	ErrStructural = zerr.New("invalid entry")

	// ErrIndexOutOfRange is returned when a sequence index is outside its bounds.
	ErrIndexOutOfRange = zerr.New("index out of range")

	// ErrInvalidIndex is returned when a sequence is addressed with a non-integer key.
	ErrInvalidIndex = zerr.New("sequence index must be an integer")

	// ErrNotAContainer is returned when a path walks into a value that has no keys.
	ErrNotAContainer = zerr.New("value is not a container")

	// ErrNotASequence is returned when appending to a value that is not a sequence.
	ErrNotASequence = zerr.New("value is not a sequence")

	// ErrEmptyPath is returned when a key path with no elements is given.
	ErrEmptyPath = zerr.New("key path is empty")

	// ErrUnsupportedOperand is returned when a reducer is given values it cannot combine.
	ErrUnsupportedOperand = zerr.New("unsupported operand")

	// ErrSourcesFailed is returned when an aggregator cannot produce its source list.
	ErrSourcesFailed = zerr.New("failed to produce aggregator sources")

	// ErrCheckFailed is returned when a sheet has diagnostics.
	ErrCheckFailed = zerr.New("check reported problems")

	// ErrSheetReadFailed is returned when a sheet file cannot be read.
	ErrSheetReadFailed = zerr.New("failed to read sheet")

	// ErrSheetParseFailed is returned when a sheet file is not valid YAML.
	ErrSheetParseFailed = zerr.New("failed to parse sheet")

	// ErrSheetInvalid is returned when a sheet fails validation.
	ErrSheetInvalid = zerr.New("invalid sheet")

	// ErrSheetWriteFailed is returned when a sheet cannot be written.
	ErrSheetWriteFailed = zerr.New("failed to write sheet")

	// ErrSheetMarshalFailed is returned when a snapshot cannot be encoded.
	ErrSheetMarshalFailed = zerr.New("failed to marshal snapshot")

	// ErrUnknownSkillType is returned when a skill names a type that does not exist.
	ErrUnknownSkillType = zerr.New("unknown skill type")

	// ErrInvalidConduit is returned when a conduit tag cannot be parsed.
	ErrInvalidConduit = zerr.New("invalid conduit, expected '<cost> <spell type>'")

	// ErrTableReadFailed is returned when the attribute table cannot be read.
	ErrTableReadFailed = zerr.New("failed to read attribute table")

	// ErrTableInvalid is returned when the attribute table is malformed.
	ErrTableInvalid = zerr.New("invalid attribute table")

	// ErrStoreCreateFailed is returned when the snapshot store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create snapshot store directory")

	// ErrStoreReadFailed is returned when a stored snapshot cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read snapshot")

	// ErrStoreWriteFailed is returned when a snapshot cannot be written to the store.
	ErrStoreWriteFailed = zerr.New("failed to write snapshot")

	// ErrSnapshotNotFound is returned when no snapshot is stored under a digest.
	ErrSnapshotNotFound = zerr.New("snapshot not found")

	// ErrConfigParseFailed is returned when the environment settings cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse settings from environment")

	// ErrWatchFailed is returned when a sheet cannot be watched for changes.
	ErrWatchFailed = zerr.New("failed to watch sheet")
)
