package tiercache

import (
	"time"

	"go.uber.org/zap"
)

// sweep periodically removes expired memory-tier entries. Lazy removal on
// read handles hot keys; the sweep exists for keys that are written once
// and never read again, which would otherwise sit in memory forever.
//
// The durable tier is deliberately left alone: its records are pruned
// lazily when a read discovers they are stale.
func (m *Manager[T]) sweep() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case now := <-ticker.C:
			if removed := m.mem.RemoveExpired(now); removed > 0 {
				m.cfg.logger.Debug("swept expired cache entries",
					zap.Int("removed", removed))
			}
		}
	}
}
