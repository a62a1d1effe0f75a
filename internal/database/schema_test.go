package database

import (
	"reflect"
	"strings"
	"testing"

	"github.com/soundstore/soundstore/pkg/schema"
)

type artist struct {
	ID   int64  `db:"id,primaryKey,bigserial"`
	Name string `db:"name,unique,notNull"`
}

type album struct {
	ID       int64  `db:"id,primaryKey,bigserial"`
	Title    string `db:"title,notNull"`
	ArtistID *int64 `db:"artist_id,fk(artists.id),onDelete:setnull"`
	LabelID  int64  `db:"label_id,notNull,fk(labels.id)"`
}

func parse(t *testing.T, model any) *schema.TableMetadata {
	t.Helper()
	table, err := schema.NewParser().Parse(reflect.TypeOf(model))
	if err != nil {
		t.Fatalf("Parse(%T): %v", model, err)
	}
	return table
}

func TestCreateTableSQL(t *testing.T) {
	sql := createTableSQL(parse(t, artist{}))

	want := "CREATE TABLE IF NOT EXISTS artists (\n" +
		"    id bigserial NOT NULL PRIMARY KEY,\n" +
		"    name text NOT NULL UNIQUE\n" +
		");"
	if sql != want {
		t.Errorf("createTableSQL =\n%s\nwant\n%s", sql, want)
	}
}

func TestCreateTableSQLForeignKeys(t *testing.T) {
	sql := createTableSQL(parse(t, album{}))

	if !strings.Contains(sql,
		"CONSTRAINT fk_albums_artist_id_artists FOREIGN KEY (artist_id) REFERENCES artists (id) ON DELETE SET NULL") {
		t.Errorf("missing SET NULL foreign key in:\n%s", sql)
	}
	if strings.Contains(sql, "labels (id) ON DELETE") {
		t.Errorf("plain foreign key must not carry an ON DELETE action:\n%s", sql)
	}
	if !strings.Contains(sql, "CONSTRAINT fk_albums_label_id_labels FOREIGN KEY (label_id) REFERENCES labels (id)") {
		t.Errorf("missing plain foreign key in:\n%s", sql)
	}
	if !strings.Contains(sql, "artist_id bigint,") {
		t.Errorf("nullable fk column rendered wrong in:\n%s", sql)
	}
}
