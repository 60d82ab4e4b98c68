package error

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestBaseErrorTypes(t *testing.T) {
	// Messages are surfaced to API callers, keep them stable
	if ErrInsufficientPoints.Error() != "not enough points to enroll in this class" {
		t.Errorf("ErrInsufficientPoints has unexpected message: %s", ErrInsufficientPoints.Error())
	}
	if ErrAlreadyEnrolled.Error() != "already enrolled in this class" {
		t.Errorf("ErrAlreadyEnrolled has unexpected message: %s", ErrAlreadyEnrolled.Error())
	}
}

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"Validation", ErrValidation, 4000},
		{"InsufficientPoints", ErrInsufficientPoints, 4001},
		{"AlreadyEnrolled", ErrAlreadyEnrolled, 4002},
		{"InvalidClassID", ErrInvalidClassID, 4003},
		{"Unauthenticated", ErrUnauthenticated, 4010},
		{"BadCredential", ErrBadCredential, 4011},
		{"UnknownUser", ErrUnknownUser, 4011},
		{"Forbidden", ErrForbidden, 4030},
		{"ClassNotFound", ErrClassNotFound, 4041},
		{"ProfileNotFound", ErrProfileNotFound, 4042},
		{"DuplicateEmail", ErrDuplicateEmail, 4090},
		{"ConcurrentUpdate", ErrConcurrentUpdate, 4091},
		{"Store", NewStoreError("get class", errors.New("boom")), 5001},
		{"UnknownError", errors.New("unknown error"), 5000},
		{"WrappedError", fmt.Errorf("wrapped: %w", ErrClassNotFound), 4041},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code := ErrorCode(tc.err)
			if code != tc.expected {
				t.Errorf("ErrorCode(%v) = %d, want %d", tc.err, code, tc.expected)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"Validation", Validationf("title is required"), http.StatusBadRequest},
		{"AlreadyEnrolled", ErrAlreadyEnrolled, http.StatusBadRequest},
		{"InsufficientPoints", NewInsufficientPointsError(1, 2, 50, 30), http.StatusBadRequest},
		{"Unauthenticated", ErrUnauthenticated, http.StatusUnauthorized},
		{"BadCredential", ErrBadCredential, http.StatusUnauthorized},
		{"Forbidden", ErrForbidden, http.StatusForbidden},
		{"ClassNotFound", ErrClassNotFound, http.StatusNotFound},
		{"ProfileNotFound", ErrProfileNotFound, http.StatusNotFound},
		{"DuplicateEmail", ErrDuplicateEmail, http.StatusConflict},
		{"ConcurrentUpdate", ErrConcurrentUpdate, http.StatusConflict},
		{"Store", NewStoreError("insert enrollment", errors.New("connection reset")), http.StatusInternalServerError},
		{"Unknown", errors.New("surprise"), http.StatusInternalServerError},
		{"WrappedEnrollment", NewEnrollmentError(1, 2, "insert", ErrAlreadyEnrolled), http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatus(tc.err); got != tc.expected {
				t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.expected)
			}
		})
	}
}

func TestPublicMessageHidesStoreDetails(t *testing.T) {
	err := NewStoreError("get profile", errors.New("pq: password authentication failed for user \"app\""))
	if msg := PublicMessage(err); msg != "Internal server error" {
		t.Errorf("PublicMessage leaked store details: %s", msg)
	}

	if msg := PublicMessage(ErrClassNotFound); msg != "class not found" {
		t.Errorf("PublicMessage(ErrClassNotFound) = %s", msg)
	}
}

func TestInsufficientPointsError(t *testing.T) {
	err := NewInsufficientPointsError(789, 12, 50, 30)
	if err == nil {
		t.Fatal("NewInsufficientPointsError returned nil")
	}

	expectedErrMsg := "not enough points to enroll user 789 in class 12: required 50, available 30"
	if err.Error() != expectedErrMsg {
		t.Errorf("InsufficientPointsError.Error() = %s, want %s", err.Error(), expectedErrMsg)
	}

	if !errors.Is(err, ErrInsufficientPoints) {
		t.Errorf("errors.Is(err, ErrInsufficientPoints) = false, want true")
	}

	fields := LogFieldsOf(fmt.Errorf("wrapped: %w", err))
	if fields["error_type"] != "insufficient_points" {
		t.Errorf("LogFieldsOf did not find the typed error: %v", fields)
	}
}

func TestEnrollmentError(t *testing.T) {
	err := NewEnrollmentError(3, 9, "insert enrollment", ErrAlreadyEnrolled)

	expectedErrMsg := "enrollment of user 3 in class 9 failed at insert enrollment: already enrolled in this class"
	if err.Error() != expectedErrMsg {
		t.Errorf("EnrollmentError.Error() = %s, want %s", err.Error(), expectedErrMsg)
	}

	if !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("errors.Is(err, ErrAlreadyEnrolled) = false, want true")
	}

	var enrollErr *EnrollmentError
	if !errors.As(err, &enrollErr) {
		t.Fatalf("errors.As failed: not an *EnrollmentError")
	}
	if enrollErr.Step != "insert enrollment" {
		t.Errorf("Step = %s, want insert enrollment", enrollErr.Step)
	}
}

func TestStoreError(t *testing.T) {
	driverErr := errors.New("connection refused")
	err := NewStoreError("list classes", driverErr)

	if !errors.Is(err, ErrStore) {
		t.Errorf("errors.Is(err, ErrStore) = false, want true")
	}
	if !errors.Is(err, driverErr) {
		t.Errorf("errors.Is(err, driverErr) = false, want true")
	}
	if IsBusinessRuleError(err) {
		t.Errorf("IsBusinessRuleError(store error) = true, want false")
	}
}

func TestIsNotFoundError(t *testing.T) {
	for _, err := range []error{ErrNotFound, ErrUserNotFound, ErrClassNotFound, ErrProfileNotFound} {
		if !IsNotFoundError(fmt.Errorf("wrapped: %w", err)) {
			t.Errorf("IsNotFoundError(%v) = false, want true", err)
		}
	}
	if IsNotFoundError(ErrAlreadyEnrolled) {
		t.Errorf("IsNotFoundError(ErrAlreadyEnrolled) = true, want false")
	}
}

func TestPublicMessageHidesWorkflowDetails(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{"InsufficientPoints", NewInsufficientPointsError(2, 1, 500, 100), "not enough points to enroll in this class"},
		{"EnrollmentStep", NewEnrollmentError(4, 9, "insert enrollment", ErrAlreadyEnrolled), "already enrolled in this class"},
		{"WrappedNotFound", fmt.Errorf("get class 12: %w", ErrClassNotFound), "class not found"},
		{"Validation", Validationf("title is required"), "validation failed: title is required"},
		{"WrappedValidation", fmt.Errorf("create class: %w", Validationf("cost cannot be negative")), "validation failed: cost cannot be negative"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if msg := PublicMessage(tc.err); msg != tc.expected {
				t.Errorf("PublicMessage(%v) = %q, want %q", tc.err, msg, tc.expected)
			}
		})
	}
}
