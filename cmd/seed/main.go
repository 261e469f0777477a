package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"creatorpay/pkg/cache"
	"creatorpay/pkg/config"
	"creatorpay/pkg/database"
	"creatorpay/pkg/logger"
	"creatorpay/pkg/s3"
	"creatorpay/pkg/units"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// creatorProfile mirrors the creator_profiles table.
type creatorProfile struct {
	Address    string `gorm:"primary_key"`
	Name       string
	NameSource string
	AvatarURL  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (creatorProfile) TableName() string {
	return "creator_profiles"
}

// Local hardhat accounts #1-#5.
var seedCreators = []struct {
	address string
	name    string
}{
	{"0x70997970C51812dc3A010C7d01b50e0d17dc79C8", "Alice Art"},
	{"0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC", "Bob Beats"},
	{"0x90F79bf6EB2c4f870365E785982E1f101E93b906", "Carol Codes"},
	{"0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65", "Dave Dance"},
	{"0x9965507D1a55bcC2695C58ba16FB37d819B0A4dc", "Eve Essays"},
}

func main() {
	var withAvatars bool
	flag.BoolVar(&withAvatars, "avatars", true, "Upload generated avatars to S3")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	var s3Client *s3.Client
	if withAvatars {
		s3Client, err = s3.NewClient(cfg)
		if err != nil {
			log.Error("Failed to create S3 client: %v", err)
			panic(err)
		}
	}

	if err := seedProfiles(db, s3Client, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Redis unavailable, discovery cache not invalidated: %v", err)
	} else {
		defer redisClient.Close()
		if err := cache.InvalidateDiscovery(context.Background(), redisClient); err != nil {
			log.Warn("%v", err)
		}
	}

	log.Info("Database seeded successfully!")
}

func seedProfiles(db *gorm.DB, s3Client *s3.Client, log *logger.Logger) error {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	for _, c := range seedCreators {
		key, err := units.NormalizeAddress(c.address)
		if err != nil {
			return err
		}

		profile := &creatorProfile{
			Address:    key,
			Name:       c.name,
			NameSource: "profile",
		}

		if s3Client != nil {
			avatarURL, err := uploadAvatar(s3Client, httpClient, key, c.name, log)
			if err != nil {
				log.Error("Failed to upload avatar for %s: %v", c.name, err)
			} else {
				profile.AvatarURL = avatarURL
			}
		}

		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "name_source", "avatar_url", "updated_at"}),
		}).Create(profile).Error
		if err != nil {
			return fmt.Errorf("failed to upsert profile %s: %w", key, err)
		}
		log.Info("Seeded creator profile: %s (%s)", c.name, units.ShortAddress(key))
	}
	return nil
}

func uploadAvatar(s3Client *s3.Client, httpClient *http.Client, address, name string, log *logger.Logger) (string, error) {
	avatarURL := "https://api.dicebear.com/7.x/identicon/png?seed=" + url.QueryEscape(address)

	log.Info("Fetching avatar for %s", name)
	resp, err := httpClient.Get(avatarURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("avatar service returned status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read avatar: %w", err)
	}
	if len(imageData) == 0 {
		return "", fmt.Errorf("received empty avatar")
	}

	fileKey := fmt.Sprintf("avatars/%s/seed.png", address)
	return s3Client.UploadFile(fileKey, bytes.NewReader(imageData), "image/png")
}
