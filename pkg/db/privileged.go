package db

import "gorm.io/gorm"

// Privileged is the capability that bypasses row-level access checks. It is
// handed explicitly to the orchestrators that need it (identity provisioning
// deletes its own partial writes); handlers and repositories cannot obtain it
// from the ambient client.
type Privileged struct {
	conn *gorm.DB
}

// NewPrivileged mints the capability from an established client. Call sites
// are limited to process wiring in cmd/.
func NewPrivileged(c *Client) Privileged {
	if c == nil {
		return Privileged{}
	}
	return Privileged{conn: c.conn}
}

// NewPrivilegedFromConn exists for tests that stand up an in-memory database.
func NewPrivilegedFromConn(conn *gorm.DB) Privileged {
	return Privileged{conn: conn}
}

// DB exposes the underlying connection for the holder of the capability.
func (p Privileged) DB() *gorm.DB {
	return p.conn
}

// Valid reports whether the capability is backed by a live connection.
func (p Privileged) Valid() bool {
	return p.conn != nil
}
