package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with the service namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "tastebase")
				So(manager.subsystem, ShouldEqual, "catalog")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.constLabels["env"], ShouldEqual, "test")
			})

			Convey("Then the metrics should carry the constant label", func() {
				manager.storeUp.Set(1)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				So(families[0].GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
			})
		})

		Convey("When empty options are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "tastebase")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestQueryMetrics(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When a query fails", func() {
			before := testutil.ToFloat64(globalManager.queryErrors.WithLabelValues("test.failing"))
			RecordQuery("test.failing", 1.5, 0, errors.New("boom"))

			Convey("Then only the error counter moves", func() {
				So(testutil.ToFloat64(globalManager.queryErrors.WithLabelValues("test.failing")), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.queryEmpty.WithLabelValues("test.failing")), ShouldEqual, 0)
			})
		})

		Convey("When a query matches nothing", func() {
			before := testutil.ToFloat64(globalManager.queryEmpty.WithLabelValues("test.empty"))
			RecordQuery("test.empty", 0.5, 0, nil)

			Convey("Then the empty-result counter moves", func() {
				So(testutil.ToFloat64(globalManager.queryEmpty.WithLabelValues("test.empty")), ShouldEqual, before+1)
			})
		})

		Convey("When a query returns rows", func() {
			before := testutil.ToFloat64(globalManager.queryRows.WithLabelValues("test.rows"))
			RecordQuery("test.rows", 0.5, 3, nil)

			Convey("Then the row counter grows by the row count", func() {
				So(testutil.ToFloat64(globalManager.queryRows.WithLabelValues("test.rows")), ShouldEqual, before+3)
			})
		})

		Convey("When store health changes", func() {
			UpdateStoreUp(false)
			down := testutil.ToFloat64(globalManager.storeUp)
			UpdateStoreUp(true)
			up := testutil.ToFloat64(globalManager.storeUp)

			Convey("Then the gauge follows it", func() {
				So(down, ShouldEqual, 0)
				So(up, ShouldEqual, 1)
			})
		})
	})
}

func TestRecordingDoesNotPanic(t *testing.T) {
	Convey("Given metrics recording helpers", t, func() {
		So(func() {
			RecordHTTPRequest("restaurants", "GET", "200")
			RecordHTTPRequestDuration("restaurants", "GET", "200", 12.0)
			IncHTTPInFlight()
			DecHTTPInFlight()
			RecordRateLimited()
			RecordQueryWait(0.2)
			RecordQueryOverloaded()
			UpdateQueriesInFlight(2)
			RecordErrorByType("not_found", "low")
			RecordErrorByEndpoint("restaurants", "GET", "not_found")
			UpdateSystemMemoryUsage(1024)
			UpdateSystemGoroutineCount(10)
			RecordSystemGCPauseTime(0.3)
		}, ShouldNotPanic)

		So(GetRegistry(), ShouldNotBeNil)
	})
}
