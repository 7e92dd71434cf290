package utils

import (
	"net/http"
	"time"
)

// StartHealthPing periodically fetches url so hosting platforms that idle
// out inactive services keep the process warm. Returns a stop function.
// No-op when url is empty.
func StartHealthPing(url string, interval time.Duration) func() {
	if url == "" {
		return func() {}
	}

	client := &http.Client{Timeout: 10 * time.Second}
	ping := func() {
		resp, err := client.Get(url)
		if err != nil {
			Sugar.Warnf("health ping %s failed: %v", url, err)
			return
		}
		resp.Body.Close()
		Sugar.Debugf("health ping %s -> %d", url, resp.StatusCode)
	}

	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		ping()
		for {
			select {
			case <-done:
				ticker.Stop()
				return
			case <-ticker.C:
				ping()
			}
		}
	}()
	return func() { close(done) }
}
