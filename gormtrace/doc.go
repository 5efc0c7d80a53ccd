// Package gormtrace records gorm statements as child spans of the request
// transaction.
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    return err
//	}
//	if err := gormtrace.Install(db, gormtrace.WithObserver(recorder)); err != nil {
//	    return err
//	}
//	db.WithContext(r.Context()).Find(&orders)
//
// Statements run with a context that carries no span are still reported to
// the observer but produce no span.
package gormtrace
