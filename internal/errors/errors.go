package errors

import "errors"

// Storage errors indicate failures reading or writing vault records.
var (
	// ErrCreateDir indicates a directory could not be created.
	ErrCreateDir = errors.New("failed to create directory")

	// ErrReadDir indicates a directory could not be listed.
	ErrReadDir = errors.New("failed to read directory")

	// ErrFileNotFound indicates a record file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrReadFile indicates a record file exists but could not be read.
	ErrReadFile = errors.New("failed to read file")

	// ErrDecipher indicates the authentication tag did not verify.
	ErrDecipher = errors.New("failed to decipher password data")

	// ErrMalformedMetadata indicates a record decrypted but its content is not valid metadata.
	ErrMalformedMetadata = errors.New("malformed metadata in file")

	// ErrWritePermission indicates a record file could not be written.
	ErrWritePermission = errors.New("can't write file here, maybe missing permissions")

	// ErrCipher indicates encryption failed.
	ErrCipher = errors.New("couldn't cipher password")

	// ErrDeletionFailed indicates a record file could not be removed.
	ErrDeletionFailed = errors.New("failed to delete password")

	// ErrInvalidKeyLength indicates the symmetric key is not 32 bytes.
	ErrInvalidKeyLength = errors.New("invalid symmetric key length")

	// ErrInvalidEntryPath indicates an entry path is empty, escapes the vault or uses the record suffix.
	ErrInvalidEntryPath = errors.New("invalid entry path")

	// ErrInvalidAttribute indicates an attribute key or value cannot be stored in the metadata format.
	ErrInvalidAttribute = errors.New("invalid attribute")

	// ErrInvalidPattern indicates a path filter is not a valid glob.
	ErrInvalidPattern = errors.New("invalid path pattern")
)

// Plugin errors indicate failures loading or invoking native plugins.
var (
	// ErrPluginNotFound indicates no loaded plugin has the requested id.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrPluginLoad indicates a plugin could not be loaded.
	ErrPluginLoad = errors.New("failed to load plugin")

	// ErrSymbolNotFound indicates the plugin does not export the requested command.
	ErrSymbolNotFound = errors.New("command not found")

	// ErrPluginReported indicates the plugin ran and returned an error-marked result.
	ErrPluginReported = errors.New("plugin returned an error")

	// ErrDeserializeData indicates an invocation request could not be decoded.
	ErrDeserializeData = errors.New("failed to deserialize data")

	// ErrUnsupportedPlatform indicates native plugins cannot be loaded on this OS.
	ErrUnsupportedPlatform = errors.New("native plugins are not supported on this platform")
)

// Session errors indicate issues with login state or user accounts.
var (
	// ErrNotLoggedIn indicates an operation requires a logged-in user.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates a user with this name already exists.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidUsername indicates a username cannot be used as a directory name.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrNoAppdataDir indicates the application data directory cannot be determined.
	ErrNoAppdataDir = errors.New("can't find appdata dir")
)

// Input errors indicate invalid command-line input.
var (
	// ErrInvalidDateFormat indicates a date filter is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrInvalidAssignment indicates an attribute argument is not key=value.
	ErrInvalidAssignment = errors.New("invalid attribute assignment")

	// ErrNoAuditLog indicates the audit trail has not been written yet.
	ErrNoAuditLog = errors.New("no audit log found")
)
