package config

// VocabularyConfig 评分器使用的关键词表
// 词表通过配置注入，换语言/换词表不需要改评分逻辑
// 默认值是来源应用内置的中文词表
type VocabularyConfig struct {
	Colors      []string `mapstructure:"colors"`
	Sizes       []string `mapstructure:"sizes"`
	Materials   []string `mapstructure:"materials"`
	Emotions    []string `mapstructure:"emotions"`
	ActionVerbs []string `mapstructure:"action_verbs"`
	SceneNouns  []string `mapstructure:"scene_nouns"`
	Connectives []string `mapstructure:"connectives"`
	Creative    []string `mapstructure:"creative"`
}

// WithDefaults 对未配置的词表填入内置默认值
func (v VocabularyConfig) WithDefaults() VocabularyConfig {
	d := DefaultVocabulary()
	if len(v.Colors) == 0 {
		v.Colors = d.Colors
	}
	if len(v.Sizes) == 0 {
		v.Sizes = d.Sizes
	}
	if len(v.Materials) == 0 {
		v.Materials = d.Materials
	}
	if len(v.Emotions) == 0 {
		v.Emotions = d.Emotions
	}
	if len(v.ActionVerbs) == 0 {
		v.ActionVerbs = d.ActionVerbs
	}
	if len(v.SceneNouns) == 0 {
		v.SceneNouns = d.SceneNouns
	}
	if len(v.Connectives) == 0 {
		v.Connectives = d.Connectives
	}
	if len(v.Creative) == 0 {
		v.Creative = d.Creative
	}
	return v
}

// DefaultVocabulary 内置中文词表
func DefaultVocabulary() VocabularyConfig {
	return VocabularyConfig{
		Colors: []string{
			"红色", "蓝色", "绿色", "黄色", "紫色", "橙色", "粉色", "白色",
			"黑色", "金色", "银色", "彩虹", "七彩",
		},
		Sizes: []string{
			"巨大", "很大", "大大的", "小小的", "迷你", "高高的", "矮矮的",
			"长长的", "短短的", "宽阔", "细细的",
		},
		Materials: []string{
			"木头", "石头", "玻璃", "金属", "棉花", "丝绸", "冰", "水晶",
			"泥土", "纸", "毛茸茸", "光滑",
		},
		Emotions: []string{
			"开心", "快乐", "高兴", "兴奋", "温暖", "可爱", "悲伤", "害怕",
			"惊讶", "骄傲", "勇敢", "温柔", "幸福",
		},
		ActionVerbs: []string{
			"跑", "跳", "飞", "游", "唱", "跳舞", "画", "笑", "玩", "追",
			"爬", "滚", "转圈",
		},
		SceneNouns: []string{
			"森林", "海边", "天空", "草地", "城堡", "花园", "山", "河流",
			"学校", "公园", "月亮", "星星", "太阳", "云朵",
		},
		Connectives: []string{
			"然后", "接着", "因为", "所以", "但是", "而且", "首先", "最后",
			"正在", "旁边", "上面", "下面",
		},
		Creative: []string{
			"魔法", "会说话", "梦", "想象", "神奇", "秘密", "宝藏", "精灵",
			"恐龙", "外星", "时光", "漂浮",
		},
	}
}
