package ta

import "math"

// Indicator columns are aligned by index with their input and hold NaN where
// the rolling window is not yet full. Everything here is pure and re-derived
// in full each cycle.

// RSISeries computes the rolling-mean RSI. The first difference consumes one
// sample and the rolling means need period differences, so values are NaN for
// indices < period. When the rolling loss mean is zero the ratio is undefined
// and the value is clamped to 100.
func RSISeries(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}
	var gainSum, lossSum float64
	for i := 1; i < len(closes); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i < period {
			continue
		}
		gainMean := gainSum / float64(period)
		lossMean := lossSum / float64(period)
		if lossMean == 0 {
			out[i] = 100.0
			continue
		}
		rs := gainMean / lossMean
		out[i] = 100.0 - (100.0 / (1.0 + rs))
	}
	return out
}

// SMASeries computes the simple rolling mean; NaN for indices < window-1.
func SMASeries(closes []float64, window int) []float64 {
	out := nanSlice(len(closes))
	if window <= 0 || len(closes) < window {
		return out
	}
	var sum float64
	for i, c := range closes {
		sum += c
		if i >= window {
			sum -= closes[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// EMASeries computes an exponentially weighted mean with alpha = 2/(span+1)
// and adjusted weighting: each value is the weighted mean of all samples seen
// so far, defined from index 0.
func EMASeries(closes []float64, span int) []float64 {
	out := nanSlice(len(closes))
	if span <= 0 || len(closes) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	decay := 1.0 - alpha
	var num, den float64
	for i, c := range closes {
		num = c + decay*num
		den = 1.0 + decay*den
		out[i] = num / den
	}
	return out
}

// MACDSeries is the 12-span EMA minus the 26-span EMA. No signal line.
func MACDSeries(closes []float64) []float64 {
	fast := EMASeries(closes, 12)
	slow := EMASeries(closes, 26)
	out := make([]float64, len(closes))
	for i := range closes {
		out[i] = fast[i] - slow[i]
	}
	return out
}

// RSI returns the latest RSI value, or NaN if the series is too short.
func RSI(closes []float64, period int) float64 {
	return lastOf(RSISeries(closes, period))
}

// SMA returns the latest simple moving average, or NaN if too short.
func SMA(closes []float64, window int) float64 {
	return lastOf(SMASeries(closes, window))
}

// MACD returns the latest MACD value, or NaN on an empty series.
func MACD(closes []float64) float64 {
	return lastOf(MACDSeries(closes))
}

func lastOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return vals[len(vals)-1]
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
