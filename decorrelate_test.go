package sonic

import "testing"

func TestDecorrelateMidSideRoundTrip(t *testing.T) {
	original := []int32{100, 50, -200, -300, 0, 0, 32000, -32000}
	samples := append([]int32(nil), original...)

	decorrelateForward(MidSide, samples, 2)
	decorrelateInverse(MidSide, samples, 2)

	for i := range original {
		if samples[i] != original[i] {
			t.Fatalf("sample %d: got %d, want %d", i, samples[i], original[i])
		}
	}
}

func TestDecorrelateLeftSideRoundTrip(t *testing.T) {
	original := []int32{1000, 998, -50, -75}
	samples := append([]int32(nil), original...)

	decorrelateForward(LeftSide, samples, 2)
	decorrelateInverse(LeftSide, samples, 2)

	for i := range original {
		if samples[i] != original[i] {
			t.Fatalf("sample %d: got %d, want %d", i, samples[i], original[i])
		}
	}
}

func TestDecorrelateRightSideRoundTrip(t *testing.T) {
	original := []int32{1000, 998, -50, -75}
	samples := append([]int32(nil), original...)

	decorrelateForward(RightSide, samples, 2)
	decorrelateInverse(RightSide, samples, 2)

	for i := range original {
		if samples[i] != original[i] {
			t.Fatalf("sample %d: got %d, want %d", i, samples[i], original[i])
		}
	}
}

func TestDecorrelateMonoIsNoOp(t *testing.T) {
	original := []int32{100, 200, 300}
	samples := append([]int32(nil), original...)
	decorrelateForward(MidSide, samples, 1)
	for i := range original {
		if samples[i] != original[i] {
			t.Fatalf("mono sample %d changed: got %d, want %d", i, samples[i], original[i])
		}
	}
}
