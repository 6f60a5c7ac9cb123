// Package projects persists projects for the local backend in the
// "local_projects" table.
//
// Statuses are stored in their wire form ("pending", "active", "completed"),
// dates as YYYY-MM-DD (empty for an unset date) and the assignee and
// attachment lists as JSON arrays.
//
// Typical Usage
//
//	repo := projects.NewSQLiteRepository(db)
//	_ = repo.Upsert(ctx, &p)
//	all, _ := repo.GetAll(ctx)
//	one, _ := repo.GetByID(ctx, id)
//	_ = repo.DeleteByID(ctx, id)
package projects
