package ddl

import (
	"testing"

	gddl "salesclean/internal/ddl"
	"salesclean/pkg/records"
)

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	def := gddl.FromKinds("dbo.sales", []string{"product_name", "price", "a]b"},
		[]records.Kind{records.KindText, records.KindNumeric, records.KindBool}, MapType)
	got, err := BuildCreateTableSQL(def)
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	want := "IF OBJECT_ID(N'[dbo].[sales]', N'U') IS NULL\nBEGIN\n" +
		"CREATE TABLE [dbo].[sales] (\n  [product_name] NVARCHAR(MAX),\n  [price] FLOAT,\n  [a]]b] BIT\n);\nEND;"
	if got != want {
		t.Fatalf("got\n%s\nwant\n%s", got, want)
	}
}

func TestBuildCreateTableSQL_Errors(t *testing.T) {
	t.Parallel()

	if _, err := BuildCreateTableSQL(gddl.TableDef{FQN: "t"}); err == nil {
		t.Fatal("expected error for table without columns")
	}
}
