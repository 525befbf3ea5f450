// Package graph exposes a read-only storefront over GraphQL: categories,
// products, professionals and collections. It reuses the REST services so
// visibility rules match.
package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/app/services"
	gql "github.com/PascalSeth/trendiwear/pkg/graphql"
)

const maxLimit = 50

var (
	categories    = services.NewCategoryService()
	products      = services.NewProductService()
	professionals = services.NewProfessionalService()
	collections   = services.NewCollectionService()
)

// Schema builds the storefront schema.
func Schema() (graphql.Schema, error) {
	return gql.NewSchema(Query())
}

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.Int), Resolve: id},
		"name":         &graphql.Field{Type: graphql.String},
		"slug":         &graphql.Field{Type: graphql.String},
		"description":  &graphql.Field{Type: graphql.String},
		"imageUrl":     &graphql.Field{Type: graphql.String},
		"productCount": &graphql.Field{Type: graphql.Int},
		"parentId": &graphql.Field{Type: graphql.Int, Resolve: func(p graphql.ResolveParams) (any, error) {
			c, ok := p.Source.(models.Category)
			if !ok || c.ParentID == nil {
				return nil, nil
			}
			return int(*c.ParentID), nil
		}},
	},
})

var professionalType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Professional",
	Fields: graphql.Fields{
		"id":              &graphql.Field{Type: graphql.NewNonNull(graphql.Int), Resolve: id},
		"businessName":    &graphql.Field{Type: graphql.String},
		"bio":             &graphql.Field{Type: graphql.String},
		"location":        &graphql.Field{Type: graphql.String},
		"experienceYears": &graphql.Field{Type: graphql.Int},
		"isVerified":      &graphql.Field{Type: graphql.Boolean},
		"averageRating":   &graphql.Field{Type: graphql.Float},
		"reviewCount":     &graphql.Field{Type: graphql.Int},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.Int), Resolve: id},
		"name":          &graphql.Field{Type: graphql.String},
		"description":   &graphql.Field{Type: graphql.String},
		"stockQuantity": &graphql.Field{Type: graphql.Int},
		"images":        &graphql.Field{Type: graphql.NewList(graphql.String)},
		"sizes":         &graphql.Field{Type: graphql.NewList(graphql.String)},
		"colors":        &graphql.Field{Type: graphql.NewList(graphql.String)},
		"isFeatured":    &graphql.Field{Type: graphql.Boolean},
		"averageRating": &graphql.Field{Type: graphql.Float},
		"reviewCount":   &graphql.Field{Type: graphql.Int},
		"price": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (any, error) {
			if pr, ok := p.Source.(models.Product); ok {
				return pr.Price.StringFixed(2), nil
			}
			return nil, nil
		}},
		"category": &graphql.Field{Type: categoryType, Resolve: func(p graphql.ResolveParams) (any, error) {
			pr, ok := p.Source.(models.Product)
			if !ok {
				return nil, nil
			}
			if pr.Category != nil {
				return *pr.Category, nil
			}
			c, err := categories.Find(p.Context, pr.CategoryID)
			if err != nil {
				return nil, err
			}
			return *c, nil
		}},
		"professional": &graphql.Field{Type: professionalType, Resolve: func(p graphql.ResolveParams) (any, error) {
			pr, ok := p.Source.(models.Product)
			if !ok {
				return nil, nil
			}
			prof, err := professionals.Find(p.Context, pr.ProfessionalID)
			if err != nil {
				return nil, err
			}
			return *prof, nil
		}},
	},
})

var collectionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Collection",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int), Resolve: id},
		"name":        &graphql.Field{Type: graphql.String},
		"slug":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"imageUrl":    &graphql.Field{Type: graphql.String},
		"season":      &graphql.Field{Type: graphql.String},
		"isFeatured":  &graphql.Field{Type: graphql.Boolean},
		"products": &graphql.Field{
			Type: graphql.NewList(productType),
			Args: graphql.FieldConfigArgument{"limit": &graphql.ArgumentConfig{Type: graphql.Int}},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				c, ok := p.Source.(models.Collection)
				if !ok {
					return nil, nil
				}
				items, _, err := products.List(p.Context, services.ProductFilter{CollectionID: c.ID}, services.Page{Limit: limit(p)})
				return items, err
			},
		},
	},
})

// Query is the storefront root.
func Query() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Args: graphql.FieldConfigArgument{
					"parentId": &graphql.ArgumentConfig{Type: graphql.Int},
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					f := services.CategoryFilter{Search: str(p, "search")}
					if v, ok := p.Args["parentId"].(int); ok {
						parent := uint(v)
						f.ParentID = &parent
					} else {
						f.RootOnly = true
					}
					items, _, err := categories.List(p.Context, f, services.Page{Limit: maxLimit})
					return items, err
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"categoryId": &graphql.ArgumentConfig{Type: graphql.Int},
					"search":     &graphql.ArgumentConfig{Type: graphql.String},
					"page":       &graphql.ArgumentConfig{Type: graphql.Int},
					"limit":      &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					f := services.ProductFilter{Search: str(p, "search")}
					if v, ok := p.Args["categoryId"].(int); ok && v > 0 {
						f.CategoryID = uint(v)
					}
					page, _ := p.Args["page"].(int)
					items, _, err := products.List(p.Context, f, services.Page{Page: page, Limit: limit(p)})
					return items, err
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					v, _ := p.Args["id"].(int)
					if v <= 0 {
						return nil, nil
					}
					pr, err := products.Find(p.Context, uint(v))
					if err != nil || !pr.IsActive {
						return nil, err
					}
					return *pr, nil
				},
			},
			"professionals": &graphql.Field{
				Type: graphql.NewList(professionalType),
				Args: graphql.FieldConfigArgument{
					"typeId": &graphql.ArgumentConfig{Type: graphql.Int},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					var f services.ProfessionalFilter
					if v, ok := p.Args["typeId"].(int); ok && v > 0 {
						f.TypeID = uint(v)
					}
					items, _, err := professionals.List(p.Context, f, services.Page{Limit: limit(p)})
					return items, err
				},
			},
			"collections": &graphql.Field{
				Type: graphql.NewList(collectionType),
				Args: graphql.FieldConfigArgument{
					"featured": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					f := services.CollectionFilter{ActiveOnly: true}
					if v, ok := p.Args["featured"].(bool); ok {
						f.Featured = &v
					}
					items, _, err := collections.List(p.Context, f, services.Page{Limit: maxLimit})
					return items, err
				},
			},
		},
	})
}

func id(p graphql.ResolveParams) (any, error) {
	switch v := p.Source.(type) {
	case models.Category:
		return int(v.ID), nil
	case models.Product:
		return int(v.ID), nil
	case models.ProfessionalProfile:
		return int(v.ID), nil
	case models.Collection:
		return int(v.ID), nil
	}
	return nil, nil
}

func limit(p graphql.ResolveParams) int {
	if v, ok := p.Args["limit"].(int); ok && v > 0 {
		return min(v, maxLimit)
	}
	return 20
}

func str(p graphql.ResolveParams, key string) string {
	s, _ := p.Args[key].(string)
	return s
}
