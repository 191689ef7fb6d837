package db

// New opens a Store for the given dbType and dsn and installs it as the
// package default used by the helper functions.
func New(dbType, dsn string) (Store, error) {
	s, err := NewStoreFromDSN(dbType, dsn)
	if err != nil {
		return nil, err
	}
	store = s
	return s, nil
}
