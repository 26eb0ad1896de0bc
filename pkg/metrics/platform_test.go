package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPlatformMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPlatformMetrics(reg)
	metrics.IncTransition("pending_review", "approved", "ok")
	metrics.IncProvision("created")
	metrics.IncToggle("added")
	metrics.ObserveDuration("wishlist_toggle", 120*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "project_status_transitions", "to", "approved"); err != nil {
		t.Fatalf("fetch transitions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected transitions=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "donor_profile_resolutions", "source", "created"); err != nil {
		t.Fatalf("fetch provisions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected provisions=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "wishlist_toggles", "action", "added"); err != nil {
		t.Fatalf("fetch toggles: %v", err)
	} else if got != 1 {
		t.Fatalf("expected toggles=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "operation_duration_seconds", "operation", "wishlist_toggle"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestNilRegistererIsSafe(t *testing.T) {
	metrics := NewPlatformMetrics(nil)
	metrics.IncTransition("draft", "pending_review", "ok")
	metrics.IncProvision("cache")
	metrics.IncToggle("removed")
	metrics.ObserveDuration("resolve", time.Millisecond)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
