// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reputation

import "github.com/pdiddy/phm-curator/pkg/types"

var builtinPublishers = map[string]PublisherEntry{
	"ieee":                    {Rating: types.RatingExcellent, Type: "technical_society"},
	"elsevier":                {Rating: types.RatingExcellent, Type: "commercial"},
	"springer":                {Rating: types.RatingExcellent, Type: "commercial"},
	"nature publishing group": {Rating: types.RatingExcellent, Type: "commercial"},
	"wiley":                   {Rating: types.RatingExcellent, Type: "commercial"},
	"taylor & francis":        {Rating: types.RatingGood, Type: "commercial"},

	"mdpi":                {Rating: types.RatingQuestionable, Type: "open_access", Note: "Quality varies by journal"},
	"hindawi":             {Rating: types.RatingQuestionable, Type: "open_access", Note: "Some quality concerns"},
	"bentham science":     {Rating: types.RatingPoor, Type: "commercial", Note: "Known predatory practices"},
	"omics international": {Rating: types.RatingPoor, Type: "commercial", Note: "Predatory publisher"},
}

var builtinVenues = map[string]VenueEntry{
	"mechanical systems and signal processing":    {ImpactFactor: 8.4, Quartile: types.Q1, Category: "engineering", DomainRelevance: 1.0, Publisher: "elsevier"},
	"ieee transactions on industrial electronics": {ImpactFactor: 8.2, Quartile: types.Q1, Category: "engineering", DomainRelevance: 0.9, Publisher: "ieee"},
	"reliability engineering & system safety":     {ImpactFactor: 7.6, Quartile: types.Q1, Category: "engineering", DomainRelevance: 1.0, Publisher: "elsevier"},
	"expert systems with applications":            {ImpactFactor: 8.5, Quartile: types.Q1, Category: "computer_science", DomainRelevance: 0.7, Publisher: "elsevier"},
	"applied soft computing":                      {ImpactFactor: 8.7, Quartile: types.Q1, Category: "computer_science", DomainRelevance: 0.6, Publisher: "elsevier"},
	"knowledge-based systems":                     {ImpactFactor: 8.8, Quartile: types.Q1, Category: "computer_science", DomainRelevance: 0.6, Publisher: "elsevier"},
	"ieee transactions on reliability":            {ImpactFactor: 5.9, Quartile: types.Q1, Category: "engineering", DomainRelevance: 1.0, Publisher: "ieee"},
	"isa transactions":                            {ImpactFactor: 7.3, Quartile: types.Q1, Category: "engineering", DomainRelevance: 0.8, Publisher: "elsevier"},
	"measurement":                                 {ImpactFactor: 5.6, Quartile: types.Q1, Category: "engineering", DomainRelevance: 0.7, Publisher: "elsevier"},
	"sensors":                                     {ImpactFactor: 3.9, Quartile: types.Q2, Category: "engineering", DomainRelevance: 0.8, Publisher: "mdpi"},
	"neurocomputing":                              {ImpactFactor: 6.0, Quartile: types.Q1, Category: "computer_science", DomainRelevance: 0.5, Publisher: "elsevier"},

	"engineering applications of artificial intelligence":   {ImpactFactor: 8.0, Quartile: types.Q1, Category: "computer_science", DomainRelevance: 0.6, Publisher: "elsevier"},
	"ieee access":                                           {ImpactFactor: 3.9, Quartile: types.Q2, Category: "engineering", DomainRelevance: 0.5, Publisher: "ieee"},
	"journal of manufacturing systems":                      {ImpactFactor: 9.3, Quartile: types.Q1, Category: "engineering", DomainRelevance: 0.7, Publisher: "elsevier"},
	"computers & industrial engineering":                    {ImpactFactor: 7.9, Quartile: types.Q1, Category: "engineering", DomainRelevance: 0.6, Publisher: "elsevier"},
	"ieee transactions on instrumentation and measurement":  {ImpactFactor: 5.6, Quartile: types.Q1, Category: "engineering", DomainRelevance: 0.7, Publisher: "ieee"},
	"information sciences":                                  {ImpactFactor: 8.1, Quartile: types.Q1, Category: "computer_science", DomainRelevance: 0.4, Publisher: "elsevier"},
	"pattern recognition":                                   {ImpactFactor: 8.0, Quartile: types.Q1, Category: "computer_science", DomainRelevance: 0.4, Publisher: "elsevier"},
}
