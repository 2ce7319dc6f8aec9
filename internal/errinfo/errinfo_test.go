package errinfo

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("could not add image: %w", NotFound("add_image", "shape %d not found", 7))
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not found, got %v", KindOf(err))
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("expected errors.Is to match the sentinel")
	}
	if errors.Is(err, ErrInvalidArgument) {
		t.Fatal("did not expect invalid argument to match")
	}
}

func TestErrorMessage(t *testing.T) {
	err := InvalidGeometry("fit", "target width must be positive")
	if got := err.Error(); got != "fit: target width must be positive" {
		t.Errorf("unexpected message %q", got)
	}
	if err.Kind.Code() != CodeInvalidGeometry {
		t.Errorf("unexpected code %s", err.Kind.Code())
	}
}

func TestContentTypeRepairFailedUnwraps(t *testing.T) {
	cause := errors.New("no </Types>")
	err := ContentTypeRepairFailed("repair", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
	if !errors.Is(err, ErrContentTypeRepairFailed) {
		t.Fatal("expected kind match")
	}
}

func TestKindOfPlainError(t *testing.T) {
	if KindOf(errors.New("boom")) != KindUnknown {
		t.Fatal("expected unknown kind")
	}
}

func TestMessageDropsOperation(t *testing.T) {
	wrapped := fmt.Errorf("could not insert icon: %w", NotFound("load icon", "Icon 'x' not found."))
	if got := Message(wrapped); got != "Icon 'x' not found." {
		t.Errorf("Message = %q", got)
	}
	if got := Message(errors.New("disk full")); got != "disk full" {
		t.Errorf("Message = %q", got)
	}
	if got := Message(ContentTypeRepairFailed("repair", errors.New("bad zip"))); got != "content type repair failed: bad zip" {
		t.Errorf("Message = %q", got)
	}
}
