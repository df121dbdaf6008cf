package utils

import (
	"testing"

	"avatar-studio/models"
)

func TestParseAssetFileName(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		id         string
		category   models.Category
		tab        models.Tab
		gender     models.Gender
		occupation string
		wantErr    bool
	}{
		{name: "minimal", file: "hat-cap_01.png", id: "hat-cap_01", category: models.CategoryHat, tab: models.TabOutfit},
		{name: "gender", file: "HAIR-Bob-F.PNG", id: "hair-bob", category: models.CategoryHair, tab: models.TabBody, gender: models.GenderFemale},
		{name: "occupation only", file: "accessory-stethoscope-doctor.webp", id: "accessory-stethoscope", category: models.CategoryAccessory, tab: models.TabAccessories, occupation: "doctor"},
		{name: "gender and occupation", file: "shirt-apron-m-chef_cook.jpg", id: "shirt-apron", category: models.CategoryShirt, tab: models.TabOutfit, gender: models.GenderMale, occupation: "chef cook"},
		{name: "background", file: "background-beach.png", id: "background-beach", category: models.CategoryBackground, tab: models.TabBackground},
		{name: "no extension", file: "hat-cap", wantErr: true},
		{name: "unknown category", file: "cape-red.png", wantErr: true},
		{name: "drawing category", file: "drawing-x.png", wantErr: true},
		{name: "bad id", file: "hat-c@p.png", wantErr: true},
		{name: "too many parts", file: "hat-a-m-chef-extra.png", wantErr: true},
		{name: "two trailing without gender", file: "hat-a-chef-doctor.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAssetFileName(tt.file)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != tt.id || got.Category != tt.category || got.Tab != tt.tab {
				t.Errorf("got id=%s category=%s tab=%s", got.ID, got.Category, got.Tab)
			}
			if got.Gender != tt.gender || got.Occupation != tt.occupation {
				t.Errorf("got gender=%q occupation=%q", got.Gender, got.Occupation)
			}
		})
	}
}

func TestParseAssetFileNameTitlesName(t *testing.T) {
	got, err := ParseAssetFileName("hat-straw_sun_hat.png")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Straw Sun Hat" {
		t.Errorf("Name = %q", got.Name)
	}
}
