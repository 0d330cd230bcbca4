package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/cocinamqb/stockdiario/internal/catalog/domain"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type seedProduct struct {
	category string
	name     string
	unit     string
}

// defaultCatalog mirrors the stock list the kitchen started with on paper.
var defaultCatalog = []seedProduct{
	{"Preparados", "Preparado de tomate", "unidad"},
	{"Preparados", "Cebolla Caramelizada", "unidad"},
	{"Preparados", "Mayonesa De Palta", "unidad"},
	{"Preparados", "Mayonesa MQB", "unidad"},

	{"Verduras", "Lechuga Repollada", "unidad"},
	{"Verduras", "Cebolla morada", "unidad"},
	{"Verduras", "Palta", "unidad"},
	{"Verduras", "Tomate perita", "unidad"},

	{"Quesos", "Cheddar fetas", "unidad"},
	{"Quesos", "Cheddar Puch", "unidad"},
	{"Quesos", "Queso azul", "unidad"},
	{"Quesos", "Muzzarella", "unidad"},

	{"Paquetes", "Pote de queso crema", "unidad"},
	{"Paquetes", "Sachet de Mayonesa 950g", "unidad"},
	{"Paquetes", "Sachet de ketchup", "unidad"},
	{"Paquetes", "Sachet de Savora", "unidad"},
	{"Paquetes", "Aceite", "lts"},

	{"Condimentos/Ingredientes", "Comino", "g"},
	{"Condimentos/Ingredientes", "Pimienta negra", "g"},
	{"Condimentos/Ingredientes", "Pimentón", "g"},
	{"Condimentos/Ingredientes", "Ajo en polvo", "g"},
	{"Condimentos/Ingredientes", "Provenzal", "g"},
	{"Condimentos/Ingredientes", "Sal", "kg"},
	{"Condimentos/Ingredientes", "Azúcar", "kg"},
	{"Condimentos/Ingredientes", "Levadura", "g"},
	{"Condimentos/Ingredientes", "Manteca", "kg"},
	{"Condimentos/Ingredientes", "Harina", "kg"},
	{"Condimentos/Ingredientes", "Leche", "lts"},

	{"Accesorios", "Guantes", "unidad"},
	{"Accesorios", "Broches para abrochadora", "unidad"},

	{"Botiquín", "Platsul", "unidad"},
	{"Botiquín", "Gasas", "unidad"},
	{"Botiquín", "Curitas", "unidad"},
	{"Botiquín", "Pervinox", "unidad"},
	{"Botiquín", "Analgésicos", "unidad"},

	{"Limpieza", "Lavandina", "lts"},
	{"Limpieza", "Detergente", "lts"},
	{"Limpieza", "Líquido para piso", "lts"},
	{"Limpieza", "Antigrasa", "lts"},
	{"Limpieza", "Limpia vidrios", "lts"},
	{"Limpieza", "Esponja amarilla", "unidad"},
	{"Limpieza", "Esponja de acero", "unidad"},
	{"Limpieza", "Virulana", "unidad"},

	{"General", "Carnes armadas", "kg"},
	{"General", "Carnes por hacer", "kg"},
	{"General", "Bolsas de pollo de kg", "unidad"},
	{"General", "Panes grandes", "unidad"},
	{"General", "Panes chicos", "unidad"},

	{"Gas", "Bidón de agua", "unidad"},
}

// EnsureDefaultCatalog seeds the starting product list on first boot. Products
// the operator already created or renamed are left alone, matching is by code.
func EnsureDefaultCatalog(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range defaultCatalog {
			if err := ensureProductTx(ctx, tx, node, item); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureProductTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, item seedProduct) error {
	code := slug.Make(item.name)

	var existing catalogdomain.Product
	err := tx.WithContext(ctx).Where("code = ?", code).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	product := catalogdomain.Product{
		ID:        node.Generate().Int64(),
		Code:      code,
		Name:      item.name,
		Category:  item.category,
		Unit:      item.unit,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return tx.WithContext(ctx).Create(&product).Error
}
