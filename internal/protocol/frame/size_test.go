package frame

import (
	"errors"
	"testing"
)

func TestMessageSizeArithmetic(t *testing.T) {
	cases := []struct {
		body        int
		lengthField uint32
		paddedBody  int
		padding     int
		total       int
	}{
		{0, 24, 0, 0, 24},
		{1, 25, 8, 7, 32},
		{7, 31, 8, 1, 32},
		{8, 32, 8, 0, 32},
		{13, 37, 16, 3, 40},
		{17, 41, 24, 7, 48},
		{100, 124, 104, 4, 128},
	}
	for _, tc := range cases {
		s := FromUnpaddedBodySize(tc.body)
		if got := s.LengthField(); got != tc.lengthField {
			t.Errorf("body=%d: length field got=%d want=%d", tc.body, got, tc.lengthField)
		}
		if got := s.PaddedBodySize(); got != tc.paddedBody {
			t.Errorf("body=%d: padded body got=%d want=%d", tc.body, got, tc.paddedBody)
		}
		if got := s.BodyPadding(); got != tc.padding {
			t.Errorf("body=%d: padding got=%d want=%d", tc.body, got, tc.padding)
		}
		if got := s.PaddedMessageSize(); got != tc.total {
			t.Errorf("body=%d: total got=%d want=%d", tc.body, got, tc.total)
		}
	}
}

func TestFromLengthFieldInverts(t *testing.T) {
	for _, body := range []int{0, 1, 13, 17, 255} {
		s := FromUnpaddedBodySize(body)
		back, err := FromLengthField(s.LengthField())
		if err != nil {
			t.Fatalf("body=%d: %v", body, err)
		}
		if back.UnpaddedBodySize != body {
			t.Fatalf("body=%d: round trip gave %d", body, back.UnpaddedBodySize)
		}
	}
}

func TestFromLengthFieldRejectsShortField(t *testing.T) {
	for _, field := range []uint32{0, 1, 23} {
		if _, err := FromLengthField(field); !errors.Is(err, ErrInvalidLengthField) {
			t.Fatalf("field=%d: expected ErrInvalidLengthField, got %v", field, err)
		}
	}
	if _, err := FromLengthField(24); err != nil {
		t.Fatalf("field=24 is the empty-body frame: %v", err)
	}
}

func TestPaddedMessageSizeAlignment(t *testing.T) {
	for body := 0; body <= 10000; body++ {
		s := FromUnpaddedBodySize(body)
		if s.PaddedMessageSize()%Align != 0 {
			t.Fatalf("body=%d: total %d not a multiple of %d", body, s.PaddedMessageSize(), Align)
		}
		if s.PaddedBodySize() < body || s.PaddedBodySize()-body >= Align {
			t.Fatalf("body=%d: padded body %d out of range", body, s.PaddedBodySize())
		}
	}
}
