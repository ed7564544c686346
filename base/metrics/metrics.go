/*Package metrics wraps datadog-go to facilitate metric recording
Following are naming convention of metric:
- Internal process time: *.time
- External latency: *.latency
- Error: *.err
- Warning: *.warn
*/
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/spf13/viper"

	"github.com/bazaarx/goclient/base/env"
	"github.com/bazaarx/goclient/base/log"
)

const (
	// TagValueNA is used for tags whose values are not available.
	TagValueNA = "n/a"

	// ddRate is the rate to pass metrics to datadog agent. 1 means always
	ddRate = 1
	// buffer a few counters before sending to statsd
	bufferMetrics = 10
)

// Ender provides interface for BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

var (
	initOnce sync.Once
	ddClient statsCli
)

type statsCli interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
	TimeInMilliseconds(name string, value float64, tags []string, rate float64) error
}

func initClient() {
	host := viper.GetString("datadog_host")
	if host == "" {
		log.Log().Info("datadog host not set, metrics go to log only")
		ddClient = &LogClient{}
		return
	}
	addr := fmt.Sprintf("%s:%d", host, 8125)
	cli, err := statsd.NewBuffered(addr, bufferMetrics)
	if err != nil {
		log.Log().WithFields(log.Fields{"addr": addr, "err": err}).Warn("can't talk to datadog agent, metrics go to log only")
		ddClient = &LogClient{}
		return
	}
	ddClient = cli
}

// New creates a metric client with package name as prefix
func New(pkgName string) Service {
	initOnce.Do(initClient)
	return &Metrics{
		pkgName: pkgName,
		baseTags: []string{
			"host:", // remove unused host tag
			"pod:" + env.PodName(),
			"env:" + viper.GetString("env_name"),
			"app:" + viper.GetString("app_name"),
		},
	}
}

// Metrics sends measurements through the package level statsd client
type Metrics struct {
	pkgName  string
	baseTags []string
}

func (mt *Metrics) key(key string) string {
	return mt.pkgName + "." + key
}

func (mt *Metrics) tags(kvs []string) []string {
	tags := append([]string{}, mt.baseTags...)
	for i := 0; i+1 < len(kvs); i += 2 {
		tags = append(tags, kvs[i]+":"+kvs[i+1])
	}
	return tags
}

// BumpAvg bumps the average for the given key.
func (mt *Metrics) BumpAvg(key string, val float64, tags ...string) {
	_ = ddClient.Gauge(mt.key(key), val, mt.tags(tags), ddRate)
}

// BumpSum bumps the sum for the given key.
func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	_ = ddClient.Count(mt.key(key), int64(val), mt.tags(tags), ddRate)
}

// BumpHistogram bumps the histogram for the given key.
func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	_ = ddClient.Histogram(mt.key(key), val, mt.tags(tags), ddRate)
}

// BumpTime returns an Ender whose End reports the duration since BumpTime
func (mt *Metrics) BumpTime(key string, tags ...string) Ender {
	return &timeEnder{
		metrics: mt,
		key:     key,
		tags:    tags,
		start:   time.Now(),
	}
}

type timeEnder struct {
	metrics *Metrics
	key     string
	tags    []string
	start   time.Time
}

func (te *timeEnder) End() {
	elapsed := float64(time.Since(te.start)) / float64(time.Millisecond)
	_ = ddClient.TimeInMilliseconds(te.metrics.key(te.key), elapsed, te.metrics.tags(te.tags), ddRate)
}
