package seeder

import (
	"context"
	"fmt"

	"talentmatch/internal/database"
	"talentmatch/internal/domain/skill"
)

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "slug", "name", "category", "created_at", "updated_at"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "skill_aliases", "skill_id", "alias"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		Name     string
		Category string
		Aliases  []string
	}{
		{Name: "Python", Category: "Langage"},
		{Name: "Go", Category: "Langage", Aliases: []string{"golang"}},
		{Name: "JavaScript", Category: "Langage", Aliases: []string{"js"}},
		{Name: "TypeScript", Category: "Langage", Aliases: []string{"ts"}},
		{Name: "PHP", Category: "Langage"},
		{Name: "Java", Category: "Langage"},
		{Name: "React", Category: "Framework", Aliases: []string{"reactjs", "react.js"}},
		{Name: "Node.js", Category: "Framework", Aliases: []string{"nodejs", "node"}},
		{Name: "Symfony", Category: "Framework"},
		{Name: "Développement Web", Category: "Domaine"},
		{Name: "PostgreSQL", Category: "Base de données", Aliases: []string{"postgres"}},
		{Name: "MySQL", Category: "Base de données"},
		{Name: "Redis", Category: "Base de données"},
		{Name: "Docker", Category: "DevOps"},
		{Name: "Kubernetes", Category: "DevOps", Aliases: []string{"k8s"}},
		{Name: "CI/CD", Category: "DevOps", Aliases: []string{"cicd"}},
		{Name: "AWS", Category: "Cloud"},
		{Name: "GCP", Category: "Cloud"},
		{Name: "Gestion de projet", Category: "Transverse"},
		{Name: "Anglais", Category: "Langue"},
	}

	for _, it := range items {
		slugged := skill.NormalizeSlug(it.Name)
		affected, err := tx.Exec(
			ctx,
			`INSERT INTO skills (id, slug, name, category, created_at, updated_at)
			 VALUES (gen_random_uuid(), $1, $2, $3, NOW(), NOW())
			 ON CONFLICT (slug) DO NOTHING`,
			slugged,
			it.Name,
			it.Category,
		)
		if err != nil {
			return err
		}
		_ = affected

		for _, alias := range it.Aliases {
			_, err := tx.Exec(
				ctx,
				`INSERT INTO skill_aliases (skill_id, alias)
				 SELECT id, $2 FROM skills WHERE slug = $1
				 ON CONFLICT DO NOTHING`,
				slugged,
				alias,
			)
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
