package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// LoadFile overlays defaults from an optional config file onto opts.
// Search order: $VIDCONV_CONFIG, then ~/.config/vidconv/vidconv.yaml.
// A missing file is not an error; a malformed one is.
func LoadFile(opts *Options) error {
	v := viper.New()
	v.SetConfigName("vidconv")
	v.SetConfigType("yaml")

	if path := os.Getenv("VIDCONV_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(filepath.Join(home, ".config", "vidconv"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return applyFile(v, opts)
}

func applyFile(v *viper.Viper, opts *Options) error {
	if v.IsSet("container") {
		c, err := ParseContainer(v.GetString("container"))
		if err != nil {
			return err
		}
		opts.Container = c
	}
	if v.IsSet("video_codec") {
		vc, err := ParseVideoCodec(v.GetString("video_codec"))
		if err != nil {
			return err
		}
		opts.VideoCodec = vc
	}
	if v.IsSet("audio_codec") {
		ac, err := ParseAudioCodec(v.GetString("audio_codec"))
		if err != nil {
			return err
		}
		opts.AudioCodec = ac
	}
	if v.IsSet("crf") {
		opts.CRF = v.GetInt("crf")
	}
	if v.IsSet("subtitles") {
		opts.Subtitles = v.GetBool("subtitles")
	}
	if v.IsSet("rescale_to_720") {
		opts.RescaleTo720 = v.GetBool("rescale_to_720")
	}
	if v.IsSet("audio_to_stereo") {
		opts.AudioStereo = v.GetBool("audio_to_stereo")
	}
	return nil
}
