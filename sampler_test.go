package lut

import (
	"math"
	"testing"
)

const lsb = 1.0 / 255

func TestCorrectionFor(t *testing.T) {
	for _, size := range []int{2, 3, 16, 64} {
		c := CorrectionFor(size)
		stride := 1 / float64(size-1)
		if math.Abs(c.Scale-float64(size)*stride) > 1e-15 {
			t.Errorf("size %d: Scale = %v, want %v", size, c.Scale, float64(size)*stride)
		}
		if math.Abs(c.Bias+stride/2) > 1e-15 {
			t.Errorf("size %d: Bias = %v, want %v", size, c.Bias, -stride/2)
		}
		if got := c.Apply(0); got != c.Bias {
			t.Errorf("size %d: Apply(0) = %v, want %v", size, got, c.Bias)
		}
		if got := c.Apply(1); math.Abs(got-(c.Scale+c.Bias)) > 1e-15 {
			t.Errorf("size %d: Apply(1) = %v, want %v", size, got, c.Scale+c.Bias)
		}

		// Texel centers land on grid values.
		for i := 0; i < size; i++ {
			center := (float64(i) + 0.5) / float64(size)
			if got, want := c.Apply(center), float64(i)*stride; math.Abs(got-want) > 1e-12 {
				t.Errorf("size %d: Apply(center %d) = %v, want %v", size, i, got, want)
			}
			if got := c.Invert(c.Apply(center)); math.Abs(got-center) > 1e-12 {
				t.Errorf("size %d: Invert(Apply(%v)) = %v", size, center, got)
			}
		}
	}
}

func TestCorrectionForIsPure(t *testing.T) {
	if CorrectionFor(16) != CorrectionFor(16) {
		t.Error("CorrectionFor(16) is not deterministic")
	}
	if CorrectionFor(1) != (Correction{}) {
		t.Errorf("CorrectionFor(1) = %+v, want zero value", CorrectionFor(1))
	}
}

func TestNearestTile(t *testing.T) {
	tests := []struct {
		b    float64
		size int
		want int
	}{
		{0, 4, 0},
		{1, 4, 3},
		{0.16, 4, 0},
		{0.17, 4, 1},
		{-1, 4, 0},
		{2, 4, 3},
	}
	for _, tt := range tests {
		if got := NearestTile(tt.b, tt.size); got != tt.want {
			t.Errorf("NearestTile(%v, %d) = %d, want %d", tt.b, tt.size, got, tt.want)
		}
	}
}

func TestSampleRoundTrip(t *testing.T) {
	mappings := []Affine{Identity, Invert, Monochrome, Protanomaly, Protanopia}
	for _, m := range mappings {
		for _, size := range []int{2, 5, 16} {
			g := MustBuild(m.Func(), size)
			a := NewAtlas(g)
			for _, filter := range []Filter{FilterNearest, FilterBilinear} {
				s := Sampler{Filter: filter}
				stride := Stride(size)
				g.Each(func(r, gi, b int, want Color) {
					in := RGB(float64(r)*stride, float64(gi)*stride, float64(b)*stride)
					got := s.Sample(a, in)
					if d := got.MaxDiff(want.Clamp()); d > lsb {
						t.Fatalf("%v size %d: Sample(%+v) = %+v, want %+v (diff %v)",
							filter, size, in, got, want, d)
					}
				})
			}
		}
	}
}

func TestSampleBilinearInterpolatesRG(t *testing.T) {
	a := NewAtlas(MustBuild(Identity.Func(), 3))
	in := RGB(0.25, 0.75, 0.5)
	got := Sampler{Filter: FilterBilinear}.Sample(a, in)
	if d := got.MaxDiff(in); d > lsb {
		t.Errorf("bilinear Sample(%+v) = %+v (diff %v)", in, got, d)
	}

	// Nearest snaps red and green to the closest grid sample.
	got = Sampler{Filter: FilterNearest}.Sample(a, RGB(0.3, 0.8, 0.5))
	if d := got.MaxDiff(RGB(0.5, 1, 0.5)); d > lsb {
		t.Errorf("nearest Sample = %+v, want grid sample (0.5, 1, 0.5)", got)
	}
}

func TestSampleBlueIsNearestOnly(t *testing.T) {
	// Blue between grid samples selects one tile; it is not blended.
	a := NewAtlas(MustBuild(Identity.Func(), 3))
	got := Sampler{Filter: FilterBilinear}.Sample(a, RGB(0, 0, 0.3))
	if d := math.Abs(got.B - 0.5); d > lsb {
		t.Errorf("Sample(B=0.3).B = %v, want tile value 0.5", got.B)
	}
	if math.Abs(got.B-0.3) < 0.1 {
		t.Errorf("Sample(B=0.3).B = %v, blue should not be interpolated", got.B)
	}
}

func TestTexCoordClampsInput(t *testing.T) {
	u0, v0 := TexCoord(RGB(-1, -1, -1), 4)
	u1, v1 := TexCoord(RGB(0, 0, 0), 4)
	if u0 != u1 || v0 != v1 {
		t.Errorf("TexCoord of out-of-range color = (%v,%v), want (%v,%v)", u0, v0, u1, v1)
	}
	if u1 <= 0 || v1 <= 0 {
		t.Errorf("TexCoord(black) = (%v,%v), want inside first texel", u1, v1)
	}
}

func TestFilterString(t *testing.T) {
	if FilterNearest.String() != "nearest" || FilterBilinear.String() != "bilinear" {
		t.Errorf("unexpected filter names %q %q", FilterNearest, FilterBilinear)
	}
	if Filter(9).String() != "unknown" {
		t.Errorf("Filter(9).String() = %q", Filter(9).String())
	}
}
