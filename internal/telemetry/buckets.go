package telemetry

import "time"

// DurationBucket is a run wall-time histogram bucket.
type DurationBucket string

const (
	BucketUnder100ms DurationBucket = "<100ms"
	BucketUnder1s    DurationBucket = "100ms-1s"
	BucketUnder10s   DurationBucket = "1s-10s"
	BucketUnder1m    DurationBucket = "10s-1m"
	BucketOver1m     DurationBucket = ">=1m"
)

// Buckets lists the histogram buckets in ascending order.
var Buckets = []DurationBucket{
	BucketUnder100ms, BucketUnder1s, BucketUnder10s, BucketUnder1m, BucketOver1m,
}

// DurationToBucket converts a run duration to its histogram bucket.
func DurationToBucket(d time.Duration) DurationBucket {
	switch {
	case d < 100*time.Millisecond:
		return BucketUnder100ms
	case d < time.Second:
		return BucketUnder1s
	case d < 10*time.Second:
		return BucketUnder10s
	case d < time.Minute:
		return BucketUnder1m
	default:
		return BucketOver1m
	}
}
