package claimform

import (
	"os"
	"strings"
	"testing"

	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestGenerator_Generate(t *testing.T) {
	emp := &models.Employee{EmployeeID: "MPC101", FullName: "Ananya Sharma", AnnualLeave: 12, SickLeave: 8}
	claim := &Claim{
		Category:    "travel",
		Amount:      "120 USD",
		ExpenseDate: "August 12",
		ReceiptPath: "uploads/12345_taxi.pdf",
	}

	t.Run("writes a readable workbook with the claim fields", func(t *testing.T) {
		g, err := NewGenerator(t.TempDir(), zap.NewNop())
		require.NoError(t, err)

		path, err := g.Generate(emp, claim)
		require.NoError(t, err)
		require.FileExists(t, path)
		assert.True(t, strings.HasSuffix(path, ".xlsx"))
		assert.Contains(t, path, "expense_claim_MPC101_")

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()

		sheet := f.GetSheetName(0)
		cell := func(ref string) string {
			v, err := f.GetCellValue(sheet, ref)
			require.NoError(t, err)
			return v
		}

		assert.Equal(t, "Expense Claim Form", cell("A1"))
		assert.Equal(t, "MPC101", cell("B3"))
		assert.Equal(t, "Ananya Sharma", cell("B4"))
		assert.Equal(t, "travel", cell("B5"))
		assert.Equal(t, "120 USD", cell("B6"))
		assert.Equal(t, "August 12", cell("B7"))
		assert.Equal(t, "12345_taxi.pdf", cell("B8"))
		assert.NotEmpty(t, cell("B9"))
	})

	t.Run("creates the output directory if missing", func(t *testing.T) {
		dir := t.TempDir() + "/nested/forms"
		_, err := NewGenerator(dir, zap.NewNop())
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("fails when the output directory is not writable", func(t *testing.T) {
		if os.Getuid() == 0 {
			t.Skip("running as root, permission bits are not enforced")
		}

		dir := t.TempDir()
		require.NoError(t, os.Chmod(dir, 0555))
		defer os.Chmod(dir, 0755)

		g := &Generator{outputDir: dir, logger: zap.NewNop()}
		_, err := g.Generate(emp, claim)
		assert.Error(t, err)
	})
}
