package journal

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed taxonomy of failures surfaced to the user. Every
// lower-level failure that crosses the journal boundary is wrapped into one
// of these.
type ErrorKind int

const (
	// KindListLoadFailed means the full file listing could not be loaded.
	// Fatal for startup.
	KindListLoadFailed ErrorKind = iota + 1
	// KindContentLoadFailed means a single file fetch failed. Recoverable;
	// the previous selection stays in place.
	KindContentLoadFailed
	// KindSaveFailed means a write failed (stale version id, network, auth).
	// The session re-establishes consistency by reloading everything.
	KindSaveFailed
	// KindValidationRejected is a user-caused edit rejection. Never
	// propagated past the editing boundary.
	KindValidationRejected
	// KindConfigNotFound means an optional remote document is absent.
	// Feature unavailable, not a failure.
	KindConfigNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindListLoadFailed:
		return "list load failed"
	case KindContentLoadFailed:
		return "content load failed"
	case KindSaveFailed:
		return "save failed"
	case KindValidationRejected:
		return "validation rejected"
	case KindConfigNotFound:
		return "config not found"
	default:
		return "unknown"
	}
}

// Error pairs a taxonomy kind with the underlying cause and an optional
// user-facing message.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// newError wraps cause into a taxonomy error.
func newError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// rejectEdit builds a validation rejection with a user-facing message.
func rejectEdit(message string) *Error {
	return &Error{Kind: KindValidationRejected, Message: message}
}

// IsKind reports whether err (or anything it wraps) is a taxonomy error of
// the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// User-facing messages, kept in the product's language.
const (
	msgLoadFilesFailed   = "파일 목록을 불러오는데 실패했습니다. 다시 로그인해주세요."
	msgLoadFileFailed    = "파일을 불러오는데 실패했습니다."
	msgSaveFileFailed    = "파일 저장에 실패했습니다. 페이지를 새로고침합니다."
	msgDeleteText        = "작성한 글은 지울 수 없어요."
	msgTitlePrefix       = "날짜 부분은 수정할 수 없어요."
	msgTitleTooLong      = "제목이 너무 길어요. (최대 50자)"
	msgBodyTooLong       = "본문이 너무 길어요. (최대 30,000자)"
	msgNotEnoughContent  = "저장하려면 더 길게 작성해야 해요."
	msgAlreadyFavorite   = "이미 즐겨찾기에 추가된 파일입니다."
	msgNonExistentFile   = "존재하지 않는 파일이 있습니다."
	msgReadOnlyEntry     = "저장된 글은 수정할 수 없어요."
	msgInvalidDateFormat = "날짜 형식이 올바르지 않아요. (YYYY-MM-DD)"
)
