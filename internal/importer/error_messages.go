package importer

// error_messages.go maps technical errors to messages with a support code.
//
// # Error Codes Reference
//
// # Parse Errors (PARSE001-PARSE099)
//
//	PARSE001 - Wrong column count: A line has too many or too few columns
//	           Action: Check the line against the file layout; escape commas inside values as \,
//	           Matches: *csvline.FieldCountError
//
//	PARSE002 - Invalid number: A numeric column holds a non-numeric value
//	           Action: Use plain decimal numbers for rating, price, size and duration
//	           Matches: ErrInvalidNumber
//
//	PARSE003 - Unknown content type: The content type is not application, ringtone or wallpaper
//	           Action: Fix the type column
//	           Matches: ErrUnknownContentType
//
//	PARSE004 - Line too long: A line exceeds the maximum line size
//	           Action: Check the file for missing line breaks or raise IMPORT_MAX_LINE_BYTES
//	           Matches: ErrLineTooLong, bufio.ErrTooLong
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - File not found: The input file does not exist
//	         Action: Check the file path
//	         Matches: fs.ErrNotExist, "no such file or directory", "cannot find the file"
//
//	IMP002 - Permission denied: The input file cannot be read
//	         Action: Check the file permissions
//	         Matches: fs.ErrPermission, "permission denied"
//
//	IMP003 - Not a file: The input path is a directory
//	         Action: Pass the path of a file
//	         Matches: "is a directory"
//
//	IMP004 - Cancelled: The import was interrupted
//	         Action: Run the command again
//	         Matches: context.Canceled, context.DeadlineExceeded
//
// # Authorization (AUTH001)
//
//	AUTH001 - Missing access token: Import requires an access token
//	          Action: Set STOREFRONT_ACCESS_TOKEN or pass --token
//	          Matches: catalog.ErrUnauthorized
//
// # Default Error (ERR000)
//
// Returned when no rule matches.

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/JonMunkholm/storefront/internal/catalog"
	"github.com/JonMunkholm/storefront/internal/csvline"
)

// UserMessage is what the CLI shows for a failed command.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Stable reference code
}

// rule matches an error by identity first and by text second. Text is only
// needed for errors that reach us flattened, such as OS errors formatted
// into a message.
type rule struct {
	targets  []error
	as       func(error) bool
	patterns []string
	msg      UserMessage
}

func (r rule) matches(err error, text string) bool {
	for _, target := range r.targets {
		if errors.Is(err, target) {
			return true
		}
	}
	if r.as != nil && r.as(err) {
		return true
	}
	for _, p := range r.patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

var (
	msgNotFound = UserMessage{
		Message: "The input file does not exist",
		Action:  "Check the file path",
		Code:    "IMP001",
	}
	msgInterrupted = UserMessage{
		Message: "The import was interrupted",
		Action:  "Run the command again, or raise IMPORT_TIMEOUT",
		Code:    "IMP004",
	}
)

// rules are tried in order; the first match wins.
var rules = []rule{
	{
		targets:  []error{catalog.ErrUnauthorized},
		patterns: []string{"access token required"},
		msg: UserMessage{
			Message: "Import requires an access token",
			Action:  "Set STOREFRONT_ACCESS_TOKEN or pass --token",
			Code:    "AUTH001",
		},
	},
	{
		targets: []error{ErrLineTooLong, bufio.ErrTooLong},
		msg: UserMessage{
			Message: "A line exceeds the maximum line size",
			Action:  "Check the file for missing line breaks or raise IMPORT_MAX_LINE_BYTES",
			Code:    "PARSE004",
		},
	},
	{
		as: func(err error) bool {
			var fce *csvline.FieldCountError
			return errors.As(err, &fce)
		},
		msg: UserMessage{
			Message: "A line has too many or too few columns",
			Action:  `Check the line against the file layout; escape commas inside values as \,`,
			Code:    "PARSE001",
		},
	},
	{
		targets: []error{ErrInvalidNumber},
		msg: UserMessage{
			Message: "A numeric column holds a non-numeric value",
			Action:  "Use plain decimal numbers for rating, price, size and duration",
			Code:    "PARSE002",
		},
	},
	{
		targets: []error{ErrUnknownContentType},
		msg: UserMessage{
			Message: "The content type is not application, ringtone or wallpaper",
			Action:  "Fix the type column",
			Code:    "PARSE003",
		},
	},
	{
		targets:  []error{fs.ErrNotExist},
		patterns: []string{"no such file or directory", "cannot find the file"},
		msg:      msgNotFound,
	},
	{
		targets:  []error{fs.ErrPermission},
		patterns: []string{"permission denied"},
		msg: UserMessage{
			Message: "The input file cannot be read",
			Action:  "Check the file permissions",
			Code:    "IMP002",
		},
	},
	{
		patterns: []string{"is a directory"},
		msg: UserMessage{
			Message: "The input path is a directory",
			Action:  "Pass the path of a file",
			Code:    "IMP003",
		},
	},
	{
		targets: []error{context.Canceled, context.DeadlineExceeded},
		msg:     msgInterrupted,
	},
}

var fallback = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log output for details",
	Code:    "ERR000",
}

// MapError returns the user message for err. Errors that match no rule get
// the ERR000 fallback; a nil error gets the zero UserMessage.
//
//	err := &ParseError{Msg: "malformed content row", Err: ErrInvalidNumber}
//	MapError(err).Code // "PARSE002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	text := strings.ToLower(err.Error())
	for _, r := range rules {
		if r.matches(err, text) {
			return r.msg
		}
	}
	return fallback
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the fallback.
func IsUserFacing(err error) bool {
	return err != nil && MapError(err).Code != fallback.Code
}
