package model

import "time"

// Profile stores the locally-known identity bridged from the external
// identity provider.  Exactly one row exists per external subject id;
// rows are created lazily on the first verified request that carries an
// unknown subject.  The is_admin flag is never derived from token
// claims; it is flipped operationally.
//
// Fields:
//  ID        – primary key identifier.
//  SubjectID – external subject id (unique, immutable once set).
//  Email     – email address synced from verified claims (may be a
//              placeholder when the token carries none).
//  FirstName – first name synced from verified claims (nullable).
//  LastName  – last name synced from verified claims (nullable).
//  IsAdmin   – whether this profile may perform administrative operations.
//  CreatedAt – timestamp of creation.
type Profile struct {
	ID        uint64    // profiles.id
	SubjectID string    // profiles.subject_id
	Email     string    // profiles.email
	FirstName *string   // profiles.first_name (nullable)
	LastName  *string   // profiles.last_name (nullable)
	IsAdmin   bool      // profiles.is_admin
	CreatedAt time.Time // profiles.created_at
}
