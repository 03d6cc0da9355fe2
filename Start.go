package vibesession

import "context"

// Start restores any persisted session. It does not return until the restore attempt
// (cache lookup or identity fetch) has settled.
func (v *Vibe) Start(ctx context.Context) {
	v.logger.Debug("restoring session")
	v.Session.Init(ctx)

	st := v.Session.Status()
	if st.LoggedIn() {
		v.logger.Info("session restored", "user_id", st.User.ID, "session_id", st.SessionID)
	}
}

// Stop tears down session monitoring and releases the storage backend. The database
// passed to WithSqliteDB stays open.
func (v *Vibe) Stop() error {
	v.Session.Close()
	if err := v.Services.Close(); err != nil {
		return err
	}
	v.logger.Info("vibesession stopped")
	return nil
}
