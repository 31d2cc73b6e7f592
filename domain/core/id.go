package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// v7 only fails when the random source does
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	UserID      ID
	InterviewID ID
	ReportID    ID
)

func (id UserID) String() string      { return ID(id).String() }
func (id InterviewID) String() string { return ID(id).String() }
func (id ReportID) String() string    { return ID(id).String() }

func (id UserID) IsEmpty() bool      { return id == "" }
func (id InterviewID) IsEmpty() bool { return id == "" }
func (id ReportID) IsEmpty() bool    { return id == "" }

// NewReportID returns a fresh time-ordered report identifier.
func NewReportID() ReportID {
	return ReportID(NewID())
}

// NewInterviewID derives an interview identifier from the owning user and the creation
// time. A random suffix keeps two generations in the same millisecond apart.
func NewInterviewID(userID UserID, createdAt time.Time) InterviewID {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return InterviewID(fmt.Sprintf("%s_%s_%s", userID, strconv.FormatInt(createdAt.UnixMilli(), 10), suffix))
}

// ParseUserID parses a string into UserID
func ParseUserID(s string) (UserID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("user ID cannot be empty")
	}
	return UserID(s), nil
}

// ParseInterviewID parses a string into InterviewID
func ParseInterviewID(s string) (InterviewID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("interview ID cannot be empty")
	}
	// Interview IDs end up in file names of the question mirror.
	if strings.ContainsAny(s, `/\`) || strings.Contains(s, "..") {
		return "", fmt.Errorf("interview ID contains path characters")
	}
	return InterviewID(s), nil
}

// ParseReportID parses a string into ReportID
func ParseReportID(s string) (ReportID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("report ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("report ID is not a valid UUID: %w", err)
	}
	return ReportID(s), nil
}
