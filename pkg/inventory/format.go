package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
)

// ARNToName returns the resource name segment of an ARN, or the input
// unchanged when it has no path separator
func ARNToName(arn string) string {
	if arn == "" {
		return ""
	}
	if idx := strings.LastIndex(arn, "/"); idx >= 0 {
		return arn[idx+1:]
	}
	return arn
}

// CapacityProvidersString renders a service's capacity provider strategy as
// "name(weight=w,base=b)" entries joined by commas. A bare provider name is
// used when the entry carries neither weight nor base.
func CapacityProvidersString(svc types.Service) string {
	strategy := svc.CapacityProviderStrategy
	if len(strategy) == 0 {
		return ""
	}
	parts := make([]string, 0, len(strategy))
	for _, cp := range strategy {
		name := aws.ToString(cp.CapacityProvider)
		if cp.Weight == 0 && cp.Base == 0 {
			parts = append(parts, name)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s(weight=%d,base=%d)", name, cp.Weight, cp.Base))
	}
	return strings.Join(parts, ",")
}

// parseIntMaybe parses the string-typed cpu/memory fields of a task
// definition. Falls back to float truncation ("512.0"), nil when the value
// is absent or unparseable.
func parseIntMaybe(v *string) *int64 {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		n := int64(f)
		return &n
	}
	return nil
}
