package effects

// EasingFunc maps linear progress (0..1) to eased progress.
type EasingFunc func(t float64) float64

// Easing names accepted in authored effects.
const (
	EasingLinear    = "linear"
	EasingEaseInOut = "ease-in-out"
	EasingEaseOut   = "ease-out"
)

// EasingByName resolves an authored easing name, defaulting to smooth
// in-out for unset or unknown names.
func EasingByName(name string) EasingFunc {
	switch name {
	case EasingLinear:
		return easeLinear
	case EasingEaseOut:
		return easeOutCubic
	case EasingEaseInOut, "":
		return easeInOutCubic
	default:
		return easeInOutCubic
	}
}

func easeLinear(t float64) float64 {
	return t
}

// easeInOutCubic applies smooth easing function
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

func easeOutCubic(t float64) float64 {
	return 1 - pow(1-t, 3)
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
