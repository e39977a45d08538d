package elemgo

// Close stops the auto-snapshot loop and closes the journal. Reads and
// collectors stay usable afterwards; mutations and snapshot operations fail
// with ErrClosed. It is safe to call Close more than once.
func (m *Model) Close() error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	stop := m.stopAutoSnapshot
	m.stopAutoSnapshot = nil
	m.mu.Unlock()

	if stop != nil {
		close(stop)
		m.wg.Wait()
	}

	var firstErr error
	if m.journal != nil {
		if err := m.journal.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
